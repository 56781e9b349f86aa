//go:build e2e

package item_test

import (
	"net/http"
	"testing"
	"time"

	"lendloop/internal/handler/dto/request"
	"lendloop/internal/handler/dto/response"
	"lendloop/tests/common/dbtest"
	"lendloop/tests/common/httptest"
	"lendloop/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const itemsURL = "/items"

type ItemSuite struct {
	e2e.SharedSuite
}

func (s *ItemSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestItemSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ItemSuite))
}

func ptr[T any](v T) *T { return &v }

func (s *ItemSuite) TestItemCRUD() {
	s.Run("Normal case: create then read back", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner", "owner@example.com")

		reqBody := request.CreateItemRequest{
			Name:        "Power drill",
			Description: "Cordless, two batteries",
			Available:   ptr(true),
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, itemsURL, reqBody, ownerID.String())

		var created response.CreatedResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		require.NotEqual(t, uuid.Nil, created.ID)

		var view response.ItemResponse
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, itemsURL+"/"+created.ID.String(), nil, ownerID.String())
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &view)

		expected := &response.ItemResponse{
			Name:        "Power drill",
			Description: "Cordless, two batteries",
			Available:   true,
			Comments:    []*response.CommentResponse{},
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.ItemResponse{}, "ID"),
		}
		if diff := cmp.Diff(expected, &view, opts...); diff != "" {
			t.Errorf("Item response mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("Error case: missing fields fail binding", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner", "owner@example.com")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, itemsURL,
			map[string]any{"name": "Power drill"}, ownerID.String())
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	s.Run("Normal case: owner patches a single field", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner", "owner@example.com")
		itemID := dbtest.CreateTestItem(t, s.DB, ownerID, "Ladder", true)

		reqBody := request.PatchItemRequest{Available: ptr(false)}
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, itemsURL+"/"+itemID.String(), reqBody, ownerID.String())
		require.Equal(t, http.StatusNoContent, w.Code)

		var view response.ItemResponse
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, itemsURL+"/"+itemID.String(), nil, ownerID.String())
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &view)
		require.False(t, view.Available)
		require.Equal(t, "Ladder", view.Name, "untouched fields keep their values")
	})

	s.Run("Error case: only the owner may patch", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner", "owner@example.com")
		otherID := dbtest.CreateTestUser(t, s.DB, "other", "other@example.com")
		itemID := dbtest.CreateTestItem(t, s.DB, ownerID, "Ladder", true)

		reqBody := request.PatchItemRequest{Name: ptr("Stolen ladder")}
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, itemsURL+"/"+itemID.String(), reqBody, otherID.String())
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "")
	})

	s.Run("Error case: unknown item yields 404", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner", "owner@example.com")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, itemsURL+"/"+uuid.New().String(), nil, ownerID.String())
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "")
	})
}

func (s *ItemSuite) TestItemListing() {
	s.Run("Normal case: owner listing carries last and next bookings", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner", "owner@example.com")
		renterID := dbtest.CreateTestUser(t, s.DB, "renter", "renter@example.com")
		itemID := dbtest.CreateTestItem(t, s.DB, ownerID, "Power drill", true)

		now := time.Now().Truncate(time.Second)
		lastID := dbtest.CreateTestBooking(t, s.DB, itemID, renterID,
			now.Add(-48*time.Hour), now.Add(-24*time.Hour), "APPROVED")
		nextID := dbtest.CreateTestBooking(t, s.DB, itemID, renterID,
			now.Add(24*time.Hour), now.Add(48*time.Hour), "APPROVED")
		// waiting bookings never decorate
		dbtest.CreateTestBooking(t, s.DB, itemID, renterID,
			now.Add(72*time.Hour), now.Add(96*time.Hour), "WAITING")

		var views []*response.ItemResponse
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, itemsURL, nil, ownerID.String())
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &views)

		require.Len(t, views, 1)
		require.NotNil(t, views[0].LastBooking)
		require.NotNil(t, views[0].NextBooking)
		require.Equal(t, lastID, views[0].LastBooking.ID)
		require.Equal(t, nextID, views[0].NextBooking.ID)
		require.Equal(t, renterID, views[0].LastBooking.BookerID)
	})

	s.Run("Normal case: renter view of an item has no booking decoration", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner", "owner@example.com")
		renterID := dbtest.CreateTestUser(t, s.DB, "renter", "renter@example.com")
		itemID := dbtest.CreateTestItem(t, s.DB, ownerID, "Power drill", true)

		now := time.Now().Truncate(time.Second)
		dbtest.CreateTestBooking(t, s.DB, itemID, renterID,
			now.Add(-48*time.Hour), now.Add(-24*time.Hour), "APPROVED")

		var view response.ItemResponse
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, itemsURL+"/"+itemID.String(), nil, renterID.String())
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &view)
		require.Nil(t, view.LastBooking)
		require.Nil(t, view.NextBooking)
	})

	s.Run("Normal case: search matches name and description, available only", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner", "owner@example.com")
		dbtest.CreateTestItem(t, s.DB, ownerID, "Cordless drill", true)
		dbtest.CreateTestItem(t, s.DB, ownerID, "Hammer", true)
		dbtest.CreateTestItem(t, s.DB, ownerID, "Drill press", false)

		var views []*response.ItemResponse
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, itemsURL+"/search?text=dRiLl", nil, ownerID.String())
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &views)

		require.Len(t, views, 1)
		require.Equal(t, "Cordless drill", views[0].Name)
	})

	s.Run("Edge case: blank search text yields an empty sequence", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner", "owner@example.com")
		dbtest.CreateTestItem(t, s.DB, ownerID, "Hammer", true)

		var views []*response.ItemResponse
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, itemsURL+"/search?text=", nil, ownerID.String())
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &views)
		require.Empty(t, views)
	})
}

func (s *ItemSuite) TestComments() {
	s.Run("Normal case: past renter comments on the item", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner", "owner@example.com")
		renterID := dbtest.CreateTestUser(t, s.DB, "renter", "renter@example.com")
		itemID := dbtest.CreateTestItem(t, s.DB, ownerID, "Power drill", true)

		now := time.Now().Truncate(time.Second)
		dbtest.CreateTestBooking(t, s.DB, itemID, renterID,
			now.Add(-48*time.Hour), now.Add(-24*time.Hour), "APPROVED")

		reqBody := request.PostCommentRequest{Text: "Worked great"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			itemsURL+"/"+itemID.String()+"/comment", reqBody, renterID.String())

		var created response.CreatedResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		require.NotEqual(t, uuid.Nil, created.ID)

		var view response.ItemResponse
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, itemsURL+"/"+itemID.String(), nil, ownerID.String())
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &view)
		require.Len(t, view.Comments, 1)
		require.Equal(t, "Worked great", view.Comments[0].Text)
		require.Equal(t, "renter", view.Comments[0].AuthorName)
	})

	s.Run("Error case: commenting without a finished booking is rejected", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner", "owner@example.com")
		renterID := dbtest.CreateTestUser(t, s.DB, "renter", "renter@example.com")
		itemID := dbtest.CreateTestItem(t, s.DB, ownerID, "Power drill", true)

		// booking still running
		now := time.Now().Truncate(time.Second)
		dbtest.CreateTestBooking(t, s.DB, itemID, renterID,
			now.Add(-time.Hour), now.Add(time.Hour), "APPROVED")

		reqBody := request.PostCommentRequest{Text: "Too early"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			itemsURL+"/"+itemID.String()+"/comment", reqBody, renterID.String())
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "")
	})
}
