package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/evidentia/evidentia-backend/internal/service"
)

// Handler manages HTTP request handlers
type Handler struct {
	auditService service.AuditService
}

// NewHandler creates a new HTTP handler
func NewHandler(as service.AuditService) *Handler {
	return &Handler{
		auditService: as,
	}
}

// SetupRoutes configures API routes
func SetupRoutes(router *mux.Router, h *Handler) {
	// Case audit routes
	router.HandleFunc("/cases/{caseId}/audit", h.StartCaseAudit).Methods("POST").Name("RequestCaseAudit")
	router.HandleFunc("/cases/{caseId}/audit/{auditId}/csv", h.GetCaseAudit).Methods("GET").Name("GetCaseAudit")

	// Case file audit routes
	router.HandleFunc("/cases/{caseId}/files/{fileId}/audit", h.StartCaseFileAudit).Methods("POST").Name("RequestCaseFileAudit")
	router.HandleFunc("/cases/{caseId}/files/{fileId}/audit/{auditId}/csv", h.GetCaseFileAudit).Methods("GET").Name("GetCaseFileAudit")

	// Data vault audit routes
	router.HandleFunc("/datavaults/{dataVaultId}/audit", h.StartDataVaultAudit).Methods("POST").Name("RequestDataVaultAudit")
	router.HandleFunc("/datavaults/{dataVaultId}/audit/{auditId}/csv", h.GetDataVaultAudit).Methods("GET").Name("GetDataVaultAudit")

	// Data vault file audit routes
	router.HandleFunc("/datavaults/{dataVaultId}/files/{fileId}/audit", h.StartDataVaultFileAudit).Methods("POST").Name("RequestDataVaultFileAudit")
	router.HandleFunc("/datavaults/{dataVaultId}/files/{fileId}/audit/{auditId}/csv", h.GetDataVaultFileAudit).Methods("GET").Name("GetDataVaultFileAudit")

	// User audit routes
	router.HandleFunc("/users/{userId}/audit", h.StartUserAudit).Methods("POST").Name("RequestUserAudit")
	router.HandleFunc("/users/{userId}/audit/{auditId}/csv", h.GetUserAudit).Methods("GET").Name("GetUserAudit")

	// System audit routes
	router.HandleFunc("/system/audit", h.StartSystemAudit).Methods("POST").Name("RequestSystemAudit")
	router.HandleFunc("/system/audit/{auditId}/csv", h.GetSystemAudit).Methods("GET").Name("GetSystemAudit")

	// Health check
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET").Name("HealthCheck")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
