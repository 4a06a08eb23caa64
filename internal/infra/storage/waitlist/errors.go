package waitlist

import "errors"

var (
	// ErrEntryNotFound возвращается, когда заявка не найдена
	ErrEntryNotFound = errors.New("waitlist.repository: entry not found")

	// ErrEntryInactive возвращается при попытке изменить неактивную заявку
	ErrEntryInactive = errors.New("waitlist.repository: entry is inactive")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("waitlist.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("waitlist.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("waitlist.repository: failed to scan row")
)
