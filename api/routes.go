package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/handlers/v1/account"
	"github.com/carson-networks/finance-server/internal/handlers/v1/goal"
	"github.com/carson-networks/finance-server/internal/handlers/v1/status"
	"github.com/carson-networks/finance-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/finance-server/internal/importer"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

type Rest struct {
	Logger   *logrus.Logger
	Port     string
	Service  *service.Service
	Importer *importer.Importer
}

func (r *Rest) Serve() {
	mux := http.NewServeMux()
	humaAPI := humago.New(mux, huma.DefaultConfig("finance-server", "1.0.0"))

	account.NewCreateAccountHandler(r.Service.Account).Register(humaAPI)
	account.NewListAccountsHandler(r.Service.Account).Register(humaAPI)
	account.NewTotalBalanceHandler(r.Service.Account).Register(humaAPI)
	account.NewGetAccountHandler(r.Service.Account).Register(humaAPI)
	account.NewUpdateAccountHandler(r.Service.Account).Register(humaAPI)
	account.NewDeleteAccountHandler(r.Service.Account).Register(humaAPI)

	transaction.NewCreateTransactionHandler(r.Service.Transaction).Register(humaAPI)
	transaction.NewListTransactionsHandler(r.Service.Transaction).Register(humaAPI)
	transaction.NewUpdateTransactionHandler(r.Service.Transaction).Register(humaAPI)
	transaction.NewDeleteTransactionHandler(r.Service.Transaction).Register(humaAPI)
	if r.Importer != nil {
		transaction.NewImportTransactionsHandler(r.Service.Transaction, r.Importer).Register(humaAPI)
	}

	goal.NewCreateGoalHandler(r.Service.Goal).Register(humaAPI)
	goal.NewListGoalsHandler(r.Service.Goal).Register(humaAPI)
	goal.NewGetGoalHandler(r.Service.Goal).Register(humaAPI)
	goal.NewUpdateGoalHandler(r.Service.Goal).Register(humaAPI)
	goal.NewDeleteGoalHandler(r.Service.Goal).Register(humaAPI)

	statusHandler := status.NewHandler()
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.loggingMiddleware(mux),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}

// loggingMiddleware attaches a per-request LogData and emits one structured
// line per request. /status carries its own wrapper already.
func (r *Rest) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/status" {
			next.ServeHTTP(w, req)
			return
		}

		logData := logging.NewLogData(r.Logger)
		logData.AddData("method", req.Method)
		logData.AddData("path", req.URL.Path)

		endTimer := logData.AddTiming("durationMs")
		next.ServeHTTP(w, req.WithContext(logging.WithLogData(req.Context(), logData)))
		endTimer()

		logData.Log().Info("Handler.Complete")
	})
}
