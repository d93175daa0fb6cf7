package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmedia/internal/client/models"
	"shopmedia/internal/common"
)

func descriptors(ids ...string) []models.UploadDescriptor {
	out := make([]models.UploadDescriptor, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.UploadDescriptor{
			CorrelationID: id,
			Name:          id + ".png",
			MediaType:     "image/png",
			Size:          100,
			DigestSHA256:  "abc=",
		})
	}
	return out
}

func TestNegotiateUploads_Success(t *testing.T) {
	var gotPath string
	var gotBody negotiateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		perms := make([]models.UploadPermission, 0, len(gotBody.Files))
		for _, f := range gotBody.Files {
			perms = append(perms, models.UploadPermission{
				CorrelationID: f.CorrelationID,
				ImageID:       "img-" + f.CorrelationID,
				UploadURL:     "http://store/put/" + f.CorrelationID,
				StoredURL:     "http://store/get/" + f.CorrelationID,
			})
		}
		_ = json.NewEncoder(w).Encode(negotiateResponse{Permissions: perms})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	perms, err := c.NegotiateUploads(context.Background(), "p1", descriptors("a", "b"))
	require.NoError(t, err)

	assert.Equal(t, "/api/products/p1/images/negotiate", gotPath)
	require.Len(t, perms, 2)
	assert.Equal(t, "a", perms[0].CorrelationID)
	assert.Equal(t, "img-b", perms[1].ImageID)
}

func TestNegotiateUploads_LengthMismatchIsProtocolError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(negotiateResponse{
			Permissions: []models.UploadPermission{{CorrelationID: "a"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.NegotiateUploads(context.Background(), "p1", descriptors("a", "b"))
	assert.ErrorIs(t, err, common.ErrProtocolMismatch)
}

func TestNegotiateUploads_WrongCorrelationEchoIsProtocolError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(negotiateResponse{
			Permissions: []models.UploadPermission{
				{CorrelationID: "b"}, {CorrelationID: "a"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.NegotiateUploads(context.Background(), "p1", descriptors("a", "b"))
	assert.ErrorIs(t, err, common.ErrProtocolMismatch)
}

func TestNegotiateUploads_RejectionIsNegotiationFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"too many images"}`, http.StatusConflict)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.NegotiateUploads(context.Background(), "p1", descriptors("a"))
	assert.ErrorIs(t, err, common.ErrNegotiationFailed)
	assert.Contains(t, err.Error(), "too many images")
}

func TestNegotiateUploads_NetworkErrorIsNegotiationFailed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // refuse connections

	c := New(srv.URL, time.Second)
	_, err := c.NegotiateUploads(context.Background(), "p1", descriptors("a"))
	assert.ErrorIs(t, err, common.ErrNegotiationFailed)
}

func TestDeleteImages_SendsBulkBody(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody deleteImagesRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second)
	err := c.DeleteImages(context.Background(), "p1", []string{"i1", "i2"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/products/p1/images", gotPath)
	assert.Equal(t, []string{"i1", "i2"}, gotBody.IDs)
}

func TestUpdateProduct_PutsChangedFields(t *testing.T) {
	var gotMethod string
	var gotBody models.ProductUpdate

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	title := "New title"
	c := New(srv.URL, time.Second)
	err := c.UpdateProduct(context.Background(), "p1", models.ProductUpdate{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	require.NotNil(t, gotBody.Title)
	assert.Equal(t, "New title", *gotBody.Title)
	assert.Nil(t, gotBody.PriceCents)
}

func TestCompleteImage(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	require.NoError(t, c.CompleteImage(context.Background(), "img-7"))
	assert.Equal(t, "/api/images/img-7/complete", gotPath)
}

func TestListImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(listImagesResponse{Images: []models.RemoteImage{
			{ID: "i1", ProductID: "p1", URL: "http://store/get/i1"},
		}})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	imgs, err := c.ListImages(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, imgs, 1)
	assert.Equal(t, "i1", imgs[0].ID)
}
