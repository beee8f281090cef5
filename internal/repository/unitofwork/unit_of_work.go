package unitofwork

import (
	"context"

	"ai-concierge-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ServiceRepository() contract.ServiceRepository
	ChatEventRepository() contract.ChatEventRepository
}
