package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	cldapi "github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/gorilla/mux"

	"github.com/linesmerrill/court-records-api/api"
	"github.com/linesmerrill/court-records-api/config"
	"github.com/linesmerrill/court-records-api/domainerrors"
	"github.com/linesmerrill/court-records-api/models"
	"github.com/linesmerrill/court-records-api/workflow"
)

// CloudinaryHandler signs direct browser uploads of case documents
type CloudinaryHandler struct {
	WF     *workflow.Coordinator
	Config config.Config
	now    func() time.Time
}

// GenerateSignature returns a signed upload request scoped to the case's folder. The
// uploaded files are then attached with the documents route.
func (c CloudinaryHandler) GenerateSignature(w http.ResponseWriter, r *http.Request) {
	if c.Config.CloudinaryAPISecret == "" {
		writeError(w, domainerrors.Internal("document uploads are not configured", nil))
		return
	}
	id := mux.Vars(r)["id"]
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	if _, err := c.WF.GetCase(ctx, actorOf(r), id); err != nil {
		writeError(w, err)
		return
	}

	sig, err := c.sign(id)
	if err != nil {
		writeError(w, domainerrors.Internal("failed to sign upload", err))
		return
	}
	writeJSON(w, http.StatusOK, sig)
}

func (c CloudinaryHandler) sign(caseID string) (*models.DocumentSignature, error) {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	timestamp := now().Unix()
	folder := "cases/" + caseID
	params := url.Values{}
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))
	params.Set("folder", folder)
	if c.Config.CloudinaryUploadPreset != "" {
		params.Set("upload_preset", c.Config.CloudinaryUploadPreset)
	}
	signature, err := cldapi.SignParameters(params, c.Config.CloudinaryAPISecret)
	if err != nil {
		return nil, err
	}
	return &models.DocumentSignature{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    c.Config.CloudinaryAPIKey,
		CloudName: c.Config.CloudinaryCloudName,
		Folder:    folder,
		Preset:    c.Config.CloudinaryUploadPreset,
	}, nil
}
