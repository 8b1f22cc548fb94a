package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scaffold-backend/internal/handlers"
	"scaffold-backend/internal/middleware"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Auth       *handlers.AuthHandler
	User       *handlers.UserHandler
	Customer   *handlers.CustomerHandler
	Equipment  *handlers.EquipmentHandler
	Contract   *handlers.ContractHandler
	Payment    *handlers.PaymentHandler
	Attachment *handlers.AttachmentHandler
	Signature  *handlers.SignatureHandler
	Report     *handlers.ReportHandler
	Health     *handlers.HealthHandler
}

func NewRouter(h Handlers, authMiddleware *middleware.AuthMiddleware) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.PanicRecovery)
	r.Use(middleware.RequestLogging)
	r.Use(middleware.MetricsMiddleware)

	staff := func(f http.HandlerFunc) http.Handler { return authMiddleware.Authenticate(f) }
	admin := func(f http.HandlerFunc) http.Handler { return authMiddleware.RequireAdmin(f) }

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", h.Auth.Login).Methods("POST")

	// Public e-signature links
	r.HandleFunc("/public/sign/{token}", h.Signature.PublicContract).Methods("GET")
	r.HandleFunc("/public/sign/{token}", h.Signature.PublicSign).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()

	// Staff accounts
	api.Handle("/users", admin(h.User.ListUsers)).Methods("GET")
	api.Handle("/users", admin(h.User.CreateUser)).Methods("POST")
	api.Handle("/users/{id}", admin(h.User.GetUser)).Methods("GET")
	api.Handle("/users/{id}/active", admin(h.User.SetActive)).Methods("PUT")

	// Customers
	api.Handle("/customers", staff(h.Customer.ListCustomers)).Methods("GET")
	api.Handle("/customers", staff(h.Customer.CreateCustomer)).Methods("POST")
	api.Handle("/customers/{id}", staff(h.Customer.GetCustomer)).Methods("GET")
	api.Handle("/customers/{id}", staff(h.Customer.UpdateCustomer)).Methods("PUT")
	api.Handle("/customers/{id}", admin(h.Customer.DeleteCustomer)).Methods("DELETE")

	// Equipment catalog
	api.Handle("/equipment", staff(h.Equipment.ListEquipment)).Methods("GET")
	api.Handle("/equipment", admin(h.Equipment.CreateEquipment)).Methods("POST")
	api.Handle("/equipment/{id}", staff(h.Equipment.GetEquipment)).Methods("GET")
	api.Handle("/equipment/{id}", admin(h.Equipment.UpdateEquipment)).Methods("PUT")
	api.Handle("/equipment/{id}", admin(h.Equipment.DeleteEquipment)).Methods("DELETE")

	// Contracts
	api.Handle("/dashboard", staff(h.Contract.Dashboard)).Methods("GET")
	api.Handle("/contracts", staff(h.Contract.ListContracts)).Methods("GET")
	api.Handle("/contracts", staff(h.Contract.CreateContract)).Methods("POST")
	api.Handle("/contracts/{id}", staff(h.Contract.GetContract)).Methods("GET")
	api.Handle("/contracts/{id}", staff(h.Contract.UpdateContract)).Methods("PUT")
	api.Handle("/contracts/{id}", admin(h.Contract.DeleteContract)).Methods("DELETE")
	api.Handle("/contracts/{id}/status", staff(h.Contract.ChangeStatus)).Methods("PUT")
	api.Handle("/contracts/{id}/deliver", staff(h.Contract.MarkDelivered)).Methods("POST")

	// Payments
	api.Handle("/contracts/{id}/payments", staff(h.Payment.ListPayments)).Methods("GET")
	api.Handle("/contracts/{id}/payments", staff(h.Payment.RecordPayment)).Methods("POST")
	api.Handle("/contracts/{id}/payments/{paymentID}", admin(h.Payment.DeletePayment)).Methods("DELETE")

	// Attachments
	api.Handle("/contracts/{id}/attachments", staff(h.Attachment.List)).Methods("GET")
	api.Handle("/contracts/{id}/attachments", staff(h.Attachment.Upload)).Methods("POST")
	api.Handle("/contracts/{id}/attachments/{attachmentID}", staff(h.Attachment.Download)).Methods("GET")
	api.Handle("/contracts/{id}/attachments/{attachmentID}", admin(h.Attachment.Delete)).Methods("DELETE")

	// Signatures
	api.Handle("/contracts/{id}/signature", staff(h.Signature.Sign)).Methods("POST")
	api.Handle("/contracts/{id}/signing-link", staff(h.Signature.CreateLink)).Methods("POST")

	// Reports
	api.Handle("/contracts/{id}/statement.pdf", staff(h.Report.ContractStatement)).Methods("GET")
	api.Handle("/reports/overdue.csv", staff(h.Report.OverdueCSV)).Methods("GET")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", h.Health.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", h.Health.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", h.Health.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
