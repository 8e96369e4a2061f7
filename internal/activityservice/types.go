package activityservice

import (
	"context"

	"github.com/harutoki/blogdeck/internal/common"
)

type ActivityService struct {
	mb     common.MessageConsumer
	logger ActivityLogger
	ctx    context.Context
	cancel context.CancelFunc
}

type ActivityLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}
