package recommend_resource

import (
	"context"

	recommendResource "github.com/inksync/studio-booking/internal/usecase/recommend_resource"
)

type RecommendResourceUseCase interface {
	Execute(ctx context.Context, req *recommendResource.Request) (*recommendResource.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
