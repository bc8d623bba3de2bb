package predictor

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeaders(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, name := range names {
		part, err := writer.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["images"]
}

func TestClient_Predict(t *testing.T) {
	var gotVehicleName, gotVehicleModel string
	var gotImageCount int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotVehicleName = r.FormValue("vehicle_name")
		gotVehicleModel = r.FormValue("vehicle_model")
		gotImageCount = len(r.MultipartForm.File["images"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","results":[{"damage":"dent","confidence":91.2,"estimated_cost":22000,"filename":"front.jpg"}]}`))
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second)

	resp, err := client.Predict(context.Background(), "toyota", "corolla", fileHeaders(t, "front.jpg", "side.jpg"))
	require.NoError(t, err)

	assert.Equal(t, "toyota", gotVehicleName)
	assert.Equal(t, "corolla", gotVehicleModel)
	assert.Equal(t, 2, gotImageCount)

	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "dent", resp.Results[0].Damage)
	assert.InDelta(t, 91.2, resp.Results[0].Confidence, 1e-9)
	assert.NotEmpty(t, resp.Raw)
}

// A retried request must carry the same image bytes as the first attempt,
// not drained readers.
func TestClient_Predict_RetryCarriesFullPayload(t *testing.T) {
	var attempts int32
	var retriedFileSize int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			// Abort the first attempt mid-request.
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}

		require.NoError(t, r.ParseMultipartForm(32<<20))
		retriedFileSize = r.MultipartForm.File["images"][0].Size

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","results":[{"damage":"dent","confidence":91.2,"estimated_cost":22000,"filename":"front.jpg"}]}`))
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second)

	resp, err := client.Predict(context.Background(), "toyota", "corolla", fileHeaders(t, "front.jpg"))
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
	assert.Equal(t, int64(len("image-bytes")), retriedFileSize)
	assert.Equal(t, "success", resp.Status)
}

func TestClient_Predict_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"error","message":"Prediction failed."}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second)

	resp, err := client.Predict(context.Background(), "toyota", "corolla", fileHeaders(t, "front.jpg"))
	assert.Nil(t, resp)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Prediction failed")
}

func TestClient_Predict_Unreachable(t *testing.T) {
	// Reserved port with nothing listening.
	client := New("http://127.0.0.1:1", 500*time.Millisecond)

	resp, err := client.Predict(context.Background(), "toyota", "corolla", fileHeaders(t, "front.jpg"))
	assert.Nil(t, resp)
	assert.Error(t, err)
}
