package service

import (
	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/storage"
)

const defaultWorkers = 4

// Service holds all business logic services. Reads go straight to the store;
// every mutation runs as an operator action inside one storage write unit.
type Service struct {
	Account     *AccountService
	Transaction *TransactionService
	Goal        *GoalService

	operator *operator.OperatorDelegator
}

// NewService creates a Service over the given storage backend and starts the
// operator workers.
func NewService(store storage.Store) *Service {
	delegator := operator.NewOperatorDelegator(store, defaultWorkers)
	delegator.Start()

	return &Service{
		Account:     NewAccountService(store, delegator),
		Transaction: NewTransactionService(store, delegator),
		Goal:        NewGoalService(store, delegator),
		operator:    delegator,
	}
}

// Close drains and stops the operator workers.
func (s *Service) Close() {
	s.operator.Stop()
}
