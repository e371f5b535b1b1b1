package upload_banner

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers/get_release_order"
	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/internal/service/releaseorders"
)

type fakeReleaseOrderService struct {
	ro  *domain.ReleaseOrder
	err error

	itemID   int64
	filename string
	content  []byte
}

func (f *fakeReleaseOrderService) UploadBanner(_ context.Context, itemID int64, filename string, content []byte) (*domain.ReleaseOrder, error) {
	f.itemID = itemID
	f.filename = filename
	f.content = content
	return f.ro, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func multipartRequest(t *testing.T, itemID string, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/v1/items/"+itemID+"/banner", &body)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	return mux.SetURLVars(r, map[string]string{"id": itemID})
}

func TestHandle_StoresAndReportsPipelineState(t *testing.T) {
	svc := &fakeReleaseOrderService{ro: &domain.ReleaseOrder{
		ID:          5,
		Number:      "RO-abc",
		WorkOrderID: 1,
		Status:      domain.ROStatusPendingManagerReview,
	}}
	h := NewHandler(svc, nopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, multipartRequest(t, "101", "banner.png", []byte("png")))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(101), svc.itemID)
	assert.Equal(t, "banner.png", svc.filename)
	assert.Equal(t, []byte("png"), svc.content)

	var resp get_release_order.ReleaseOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, string(domain.ROStatusPendingManagerReview), resp.Status)
}

func TestHandle_UploadBeforeReleaseOrderIssue(t *testing.T) {
	// The service reports nothing to advance when the order is not issued
	// yet; the handler must still acknowledge the stored file.
	svc := &fakeReleaseOrderService{}
	h := NewHandler(svc, nopLogger{})

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.Handle(rec, multipartRequest(t, "101", "banner.png", []byte("png")))
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp StoredResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(101), resp.ItemID)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown item", releaseorders.ErrItemNotFound, http.StatusNotFound},
		{"unknown release order", releaseorders.ErrReleaseOrderNotFound, http.StatusNotFound},
		{"validation failure", domain.ErrValidation, http.StatusBadRequest},
		{"illegal state", domain.ErrInvalidState, http.StatusConflict},
		{"storage failure", releaseorders.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeReleaseOrderService{err: tt.err}, nopLogger{})

			rec := httptest.NewRecorder()
			h.Handle(rec, multipartRequest(t, "101", "banner.png", []byte("png")))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_RejectsNonMultipartBody(t *testing.T) {
	h := NewHandler(&fakeReleaseOrderService{}, nopLogger{})

	r := httptest.NewRequest(http.MethodPost, "/api/v1/items/101/banner", bytes.NewBufferString("raw"))
	r = mux.SetURLVars(r, map[string]string{"id": "101"})

	rec := httptest.NewRecorder()
	h.Handle(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
