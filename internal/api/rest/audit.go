package rest

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/evidentia/evidentia-backend/internal/models"
)

// startAuditRequest is the optional body for audit start endpoints. When
// omitted the query covers all history up to now.
type startAuditRequest struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

type startAuditResponse struct {
	AuditID string `json:"auditId"`
}

type auditStatusResponse struct {
	Status string `json:"status"`
}

// StartCaseAudit handles POST /cases/{caseId}/audit
func (h *Handler) StartCaseAudit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.startAudit(w, r, models.ScopeCase, models.ScopeKeys{CaseID: vars["caseId"]})
}

// GetCaseAudit handles GET /cases/{caseId}/audit/{auditId}/csv
func (h *Handler) GetCaseAudit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.getAudit(w, r, models.ScopeCase, models.ScopeKeys{CaseID: vars["caseId"]}, vars["auditId"])
}

// StartCaseFileAudit handles POST /cases/{caseId}/files/{fileId}/audit
func (h *Handler) StartCaseFileAudit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.startAudit(w, r, models.ScopeCaseFile, models.ScopeKeys{CaseID: vars["caseId"], FileID: vars["fileId"]})
}

// GetCaseFileAudit handles GET /cases/{caseId}/files/{fileId}/audit/{auditId}/csv
func (h *Handler) GetCaseFileAudit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.getAudit(w, r, models.ScopeCaseFile, models.ScopeKeys{CaseID: vars["caseId"], FileID: vars["fileId"]}, vars["auditId"])
}

// StartDataVaultAudit handles POST /datavaults/{dataVaultId}/audit
func (h *Handler) StartDataVaultAudit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.startAudit(w, r, models.ScopeDataVault, models.ScopeKeys{DataVaultID: vars["dataVaultId"]})
}

// GetDataVaultAudit handles GET /datavaults/{dataVaultId}/audit/{auditId}/csv
func (h *Handler) GetDataVaultAudit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.getAudit(w, r, models.ScopeDataVault, models.ScopeKeys{DataVaultID: vars["dataVaultId"]}, vars["auditId"])
}

// StartDataVaultFileAudit handles POST /datavaults/{dataVaultId}/files/{fileId}/audit
func (h *Handler) StartDataVaultFileAudit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.startAudit(w, r, models.ScopeDataVaultFile, models.ScopeKeys{DataVaultID: vars["dataVaultId"], FileID: vars["fileId"]})
}

// GetDataVaultFileAudit handles GET /datavaults/{dataVaultId}/files/{fileId}/audit/{auditId}/csv
func (h *Handler) GetDataVaultFileAudit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.getAudit(w, r, models.ScopeDataVaultFile, models.ScopeKeys{DataVaultID: vars["dataVaultId"], FileID: vars["fileId"]}, vars["auditId"])
}

// StartUserAudit handles POST /users/{userId}/audit
func (h *Handler) StartUserAudit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.startAudit(w, r, models.ScopeUser, models.ScopeKeys{UserID: vars["userId"]})
}

// GetUserAudit handles GET /users/{userId}/audit/{auditId}/csv
func (h *Handler) GetUserAudit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.getAudit(w, r, models.ScopeUser, models.ScopeKeys{UserID: vars["userId"]}, vars["auditId"])
}

// StartSystemAudit handles POST /system/audit
func (h *Handler) StartSystemAudit(w http.ResponseWriter, r *http.Request) {
	h.startAudit(w, r, models.ScopeSystem, models.ScopeKeys{})
}

// GetSystemAudit handles GET /system/audit/{auditId}/csv
func (h *Handler) GetSystemAudit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.getAudit(w, r, models.ScopeSystem, models.ScopeKeys{}, vars["auditId"])
}

func (h *Handler) startAudit(w http.ResponseWriter, r *http.Request, scope models.ResourceScope, keys models.ScopeKeys) {
	var window models.TimeWindow
	if r.Body != nil && r.ContentLength != 0 {
		var req startAuditRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
			return
		}
		window = models.TimeWindow{From: req.From, To: req.To}
	}

	auditID, err := h.auditService.StartAudit(r.Context(), scope, keys, window)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, startAuditResponse{AuditID: auditID})
}

func (h *Handler) getAudit(w http.ResponseWriter, r *http.Request, scope models.ResourceScope, keys models.ScopeKeys, auditID string) {
	result, err := h.auditService.GetAuditResult(r.Context(), scope, keys, auditID, callerIP(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if result.CSV == nil {
		respondJSON(w, http.StatusOK, auditStatusResponse{Status: result.Status})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.DownloadName))
	if result.SourceIPCondition != "" {
		w.Header().Set("X-Source-Ip-Condition", result.SourceIPCondition)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(result.CSV)
}

// callerIP extracts the client address, preferring the first forwarded hop.
func callerIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for i := 0; i < len(fwd); i++ {
			if fwd[i] == ',' {
				return fwd[:i]
			}
		}
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
