package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/parent-pal/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestFollowPublicTargetCreatesEdge(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	alice := createTestUser(t, db, "alice", models.PrivacyPublic)
	bob := createTestUser(t, db, "bob", models.PrivacyPublic)

	w := performRequest(r, http.MethodPost, requestFollowPath(bob.ID), nil, alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, FollowStatusFollowing, body["status"])
	assert.Equal(t, int64(1), followCount(db, alice.ID, bob.ID))
	assert.Equal(t, int64(0), pendingRequestCount(db, alice.ID, bob.ID))

	// Repeat follow is idempotent
	w = performRequest(r, http.MethodPost, requestFollowPath(bob.ID), nil, alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, FollowStatusFollowing, decodeBody(t, w)["status"])
	assert.Equal(t, int64(1), followCount(db, alice.ID, bob.ID))
}

func TestRequestFollowPrivateTargetCreatesPendingRequest(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	alice := createTestUser(t, db, "alice", models.PrivacyPublic)
	carol := createTestUser(t, db, "carol", models.PrivacyPrivate)

	w := performRequest(r, http.MethodPost, requestFollowPath(carol.ID), nil, alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, FollowStatusRequestPending, body["status"])
	assert.Equal(t, int64(0), followCount(db, alice.ID, carol.ID))
	assert.Equal(t, int64(1), pendingRequestCount(db, alice.ID, carol.ID))

	// Second request does not create a duplicate
	w = performRequest(r, http.MethodPost, requestFollowPath(carol.ID), nil, alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, FollowStatusRequestPending, decodeBody(t, w)["status"])
	assert.Equal(t, int64(1), pendingRequestCount(db, alice.ID, carol.ID))
}

func TestRequestFollowSelfRejected(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	alice := createTestUser(t, db, "alice", models.PrivacyPublic)

	w := performRequest(r, http.MethodPost, requestFollowPath(alice.ID), nil, alice.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(0), followCount(db, alice.ID, alice.ID))
}

func TestRequestFollowMissingTarget(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	alice := createTestUser(t, db, "alice", models.PrivacyPublic)

	w := performRequest(r, http.MethodPost, requestFollowPath(alice.ID+99), nil, alice.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApproveRequestCreatesEdgeAndIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	dave := createTestUser(t, db, "dave", models.PrivacyPublic)
	carol := createTestUser(t, db, "carol", models.PrivacyPrivate)

	w := performRequest(r, http.MethodPost, requestFollowPath(carol.ID), nil, dave.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var request models.FollowRequest
	require.NoError(t, db.Where("requester_id = ? AND requestee_id = ?", dave.ID, carol.ID).First(&request).Error)

	w = performRequest(r, http.MethodPost, respondPath(request.ID),
		map[string]string{"response_action": "approve"}, carol.ID)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&request, request.ID).Error)
	assert.Equal(t, models.FollowRequestApproved, request.Status)
	assert.Equal(t, int64(1), followCount(db, dave.ID, carol.ID))

	// approved is terminal; responding again reads as missing
	w = performRequest(r, http.MethodPost, respondPath(request.ID),
		map[string]string{"response_action": "approve"}, carol.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(1), followCount(db, dave.ID, carol.ID))
}

func TestDenyRequestCreatesNoEdge(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	dave := createTestUser(t, db, "dave", models.PrivacyPublic)
	carol := createTestUser(t, db, "carol", models.PrivacyPrivate)

	performRequest(r, http.MethodPost, requestFollowPath(carol.ID), nil, dave.ID)

	var request models.FollowRequest
	require.NoError(t, db.Where("requester_id = ? AND requestee_id = ?", dave.ID, carol.ID).First(&request).Error)

	w := performRequest(r, http.MethodPost, respondPath(request.ID),
		map[string]string{"response_action": "deny"}, carol.ID)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&request, request.ID).Error)
	assert.Equal(t, models.FollowRequestDenied, request.Status)
	assert.Equal(t, int64(0), followCount(db, dave.ID, carol.ID))
}

func TestRespondByNonRequesteeNotFound(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	dave := createTestUser(t, db, "dave", models.PrivacyPublic)
	carol := createTestUser(t, db, "carol", models.PrivacyPrivate)
	mallory := createTestUser(t, db, "mallory", models.PrivacyPublic)

	performRequest(r, http.MethodPost, requestFollowPath(carol.ID), nil, dave.ID)

	var request models.FollowRequest
	require.NoError(t, db.Where("requester_id = ? AND requestee_id = ?", dave.ID, carol.ID).First(&request).Error)

	// Neither a third party nor the requester may respond
	for _, actor := range []uint{mallory.ID, dave.ID} {
		w := performRequest(r, http.MethodPost, respondPath(request.ID),
			map[string]string{"response_action": "approve"}, actor)
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	require.NoError(t, db.First(&request, request.ID).Error)
	assert.Equal(t, models.FollowRequestPending, request.Status)
	assert.Equal(t, int64(0), followCount(db, dave.ID, carol.ID))
}

func TestRespondInvalidAction(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	carol := createTestUser(t, db, "carol", models.PrivacyPrivate)

	w := performRequest(r, http.MethodPost, respondPath(1),
		map[string]string{"response_action": "maybe"}, carol.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelPendingRequest(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	dave := createTestUser(t, db, "dave", models.PrivacyPublic)
	carol := createTestUser(t, db, "carol", models.PrivacyPrivate)

	performRequest(r, http.MethodPost, requestFollowPath(carol.ID), nil, dave.ID)
	require.Equal(t, int64(1), pendingRequestCount(db, dave.ID, carol.ID))

	w := performRequest(r, http.MethodDelete, requestFollowPath(carol.ID), nil, dave.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), pendingRequestCount(db, dave.ID, carol.ID))

	// Nothing left to cancel
	w = performRequest(r, http.MethodDelete, requestFollowPath(carol.ID), nil, dave.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelResolvedRequestNotFound(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	dave := createTestUser(t, db, "dave", models.PrivacyPublic)
	carol := createTestUser(t, db, "carol", models.PrivacyPrivate)

	performRequest(r, http.MethodPost, requestFollowPath(carol.ID), nil, dave.ID)

	var request models.FollowRequest
	require.NoError(t, db.Where("requester_id = ? AND requestee_id = ?", dave.ID, carol.ID).First(&request).Error)

	w := performRequest(r, http.MethodPost, respondPath(request.ID),
		map[string]string{"response_action": "approve"}, carol.ID)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, http.MethodDelete, requestFollowPath(carol.ID), nil, dave.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The approved request is untouched
	require.NoError(t, db.First(&request, request.ID).Error)
	assert.Equal(t, models.FollowRequestApproved, request.Status)
}

func TestGetPendingFollowRequests(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	carol := createTestUser(t, db, "carol", models.PrivacyPrivate)
	dave := createTestUser(t, db, "dave", models.PrivacyPublic)
	erin := createTestUser(t, db, "erin", models.PrivacyPublic)

	older := models.FollowRequest{
		RequesterID: dave.ID,
		RequesteeID: carol.ID,
		Status:      models.FollowRequestPending,
		CreatedAt:   time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(&older).Error)

	newer := models.FollowRequest{
		RequesterID: erin.ID,
		RequesteeID: carol.ID,
		Status:      models.FollowRequestPending,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, db.Create(&newer).Error)

	w := performRequest(r, http.MethodGet, "/api/follow-requests/pending", nil, carol.ID)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	requests, ok := body["requests"].([]interface{})
	require.True(t, ok)
	require.Len(t, requests, 2)

	first := requests[0].(map[string]interface{})
	assert.Equal(t, float64(erin.ID), first["requester_id"])
	assert.Equal(t, "erin Tester", first["requester_full_name"])

	second := requests[1].(map[string]interface{})
	assert.Equal(t, float64(dave.ID), second["requester_id"])
}

func TestPendingListExcludesResolvedRequests(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	carol := createTestUser(t, db, "carol", models.PrivacyPrivate)
	dave := createTestUser(t, db, "dave", models.PrivacyPublic)

	performRequest(r, http.MethodPost, requestFollowPath(carol.ID), nil, dave.ID)

	var request models.FollowRequest
	require.NoError(t, db.Where("requestee_id = ?", carol.ID).First(&request).Error)

	performRequest(r, http.MethodPost, respondPath(request.ID),
		map[string]string{"response_action": "deny"}, carol.ID)

	w := performRequest(r, http.MethodGet, "/api/follow-requests/pending", nil, carol.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["requests"], 0)
}

func TestUnfollow(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	alice := createTestUser(t, db, "alice", models.PrivacyPublic)
	bob := createTestUser(t, db, "bob", models.PrivacyPublic)

	performRequest(r, http.MethodPost, requestFollowPath(bob.ID), nil, alice.ID)
	require.Equal(t, int64(1), followCount(db, alice.ID, bob.ID))

	unfollowPath := fmt.Sprintf("/api/users/%d/follow", bob.ID)

	w := performRequest(r, http.MethodDelete, unfollowPath, nil, alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), followCount(db, alice.ID, bob.ID))

	w = performRequest(r, http.MethodDelete, unfollowPath, nil, alice.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFollowersAndFollowingLists(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	alice := createTestUser(t, db, "alice", models.PrivacyPublic)
	bob := createTestUser(t, db, "bob", models.PrivacyPublic)
	erin := createTestUser(t, db, "erin", models.PrivacyPublic)

	performRequest(r, http.MethodPost, requestFollowPath(bob.ID), nil, alice.ID)
	performRequest(r, http.MethodPost, requestFollowPath(bob.ID), nil, erin.ID)
	performRequest(r, http.MethodPost, requestFollowPath(erin.ID), nil, alice.ID)

	w := performRequest(r, http.MethodGet, fmt.Sprintf("/api/users/%d/followers", bob.ID), nil, alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["followers"], 2)

	w = performRequest(r, http.MethodGet, fmt.Sprintf("/api/users/%d/following", alice.ID), nil, alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Len(t, body["following"], 2)

	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["totalItems"])
}

func TestDuplicateFollowEdgeReadsAsUniqueViolation(t *testing.T) {
	db := setupTestDB(t)

	alice := createTestUser(t, db, "alice", models.PrivacyPublic)
	bob := createTestUser(t, db, "bob", models.PrivacyPublic)

	require.NoError(t, db.Create(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}).Error)

	// A second identical edge trips idx_follower_following; the handlers
	// map this to the "already following" response instead of a 500.
	err := db.Create(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}).Error
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))
}
