package redisx

import "fmt"

// Namespace общий префикс ключей сервиса
const Namespace = "studio:v1"

// KeyResourceVersion версия кэша доступности ресурса
func KeyResourceVersion(resourceID int64) string {
	return fmt.Sprintf("%s:resource:%d:version", Namespace, resourceID)
}

// KeyResourceDays кэш доступности ресурса по дням на диапазон дат
func KeyResourceDays(resourceID, version int64, from, to string) string {
	return fmt.Sprintf("%s:resource:%d:v%d:days:%s:%s", Namespace, resourceID, version, from, to)
}
