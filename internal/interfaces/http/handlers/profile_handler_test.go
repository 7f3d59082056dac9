package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tutorlink.backend/internal/domain/entities"
)

func TestProfileHandler_Listings(t *testing.T) {
	f := newAPIFixture(t)
	verifiedID, _ := f.seedUser(t, entities.UserRoleTutor)
	f.seedUser(t, entities.UserRoleTutor)
	schoolID, _ := f.seedUser(t, entities.UserRoleInstitute)
	require.NoError(t, f.store.Profiles().SetVerified(context.Background(), entities.UserTypeTutor, verifiedID, true))

	w := f.do(t, http.MethodGet, "/api/v1/tutors", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var all struct {
		Tutors []entities.TutorProfile `json:"tutors"`
	}
	decode(t, w, &all)
	require.Len(t, all.Tutors, 2)
	assert.Equal(t, verifiedID, all.Tutors[0].UserID)

	w = f.do(t, http.MethodGet, "/api/v1/tutors?verified=true", "", nil)
	var onlyVerified struct {
		Tutors []entities.TutorProfile `json:"tutors"`
	}
	decode(t, w, &onlyVerified)
	require.Len(t, onlyVerified.Tutors, 1)
	assert.True(t, onlyVerified.Tutors[0].Verified)

	w = f.do(t, http.MethodGet, "/api/v1/institutions?verified=false", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), schoolID.String())

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/v1/tutors/"+uuid.NewString(), "", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/v1/institutions/"+uuid.NewString(), "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/v1/tutors/abc", "", nil).Code)
}

func TestProfileHandler_UpdateMyTutorProfile(t *testing.T) {
	f := newAPIFixture(t)
	tutorID, tutor := f.seedUser(t, entities.UserRoleTutor)
	_, student := f.seedUser(t, entities.UserRoleStudent)

	w := f.do(t, http.MethodPut, "/api/v1/tutors/me", tutor, gin.H{
		"headline":   "  Calculus made simple ",
		"subjects":   []string{"Math", "math", " Physics ", ""},
		"hourlyRate": 45.5,
		"timezone":   "Europe/Berlin",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Tutor entities.TutorProfile `json:"tutor"`
	}
	decode(t, w, &body)
	assert.Equal(t, "Calculus made simple", body.Tutor.Headline)
	assert.Equal(t, []string{"math", "physics"}, body.Tutor.Subjects)
	assert.Equal(t, tutorID, body.Tutor.UserID)
	assert.False(t, body.Tutor.Verified)

	w = f.do(t, http.MethodGet, "/api/v1/tutors?subject=physics", "", nil)
	assert.Contains(t, w.Body.String(), tutorID.String())

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/api/v1/tutors/me", tutor, gin.H{"timezone": "Mars/Olympus"}).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/api/v1/tutors/me", tutor, gin.H{"hourlyRate": -1}).Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodPut, "/api/v1/tutors/me", student, gin.H{"headline": "x"}).Code)
}

func TestProfileHandler_GetMyProfile(t *testing.T) {
	f := newAPIFixture(t)
	userID, token := f.seedUser(t, entities.UserRoleStudent)

	w := f.do(t, http.MethodGet, "/api/v1/profile/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestRegistrationHandler_PendingLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	path := "/api/v1/registration/pending"

	token := savePending(t, f, "Tutor@Example.com", gin.H{"headline": "Chemistry tutor", "subjects": []string{"chemistry"}})
	query := path + "?email=tutor@example.com&token=" + token

	w := f.do(t, http.MethodGet, query, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Pending entities.PendingRegistration `json:"pending"`
	}
	decode(t, w, &body)
	assert.Equal(t, "tutor@example.com", body.Pending.Email)
	assert.Equal(t, entities.UserRoleTutor, body.Pending.Role)
	assert.Equal(t, "Chemistry tutor", body.Pending.Profile.Headline)
	assert.NotContains(t, w.Body.String(), token)

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, query, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, query, "", nil).Code)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, path+"?token="+token, "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodDelete, path, "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, path, "", gin.H{"email": "a@b.co", "role": "admin"}).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, path, "", gin.H{"role": "tutor"}).Code)

	_, _ = f.seedUser(t, entities.UserRoleStudent)
	users, _, err := f.store.Users().List(context.Background(), "", 1, 0)
	require.NoError(t, err)
	w = f.do(t, http.MethodPut, path, "", gin.H{"email": users[0].Email, "role": "tutor"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAvailabilityHandler(t *testing.T) {
	f := newAPIFixture(t)
	tutorID, tutor := f.seedUser(t, entities.UserRoleTutor)
	_, student := f.seedUser(t, entities.UserRoleStudent)

	windows := make([]gin.H, 0, 7)
	for d := 0; d < 7; d++ {
		windows = append(windows, gin.H{"weekday": d, "startTime": "09:00", "endTime": "11:00"})
	}
	w := f.do(t, http.MethodPut, "/api/v1/tutors/me/availability", tutor, gin.H{"windows": windows})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/v1/tutors/"+tutorID.String()+"/availability", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Availability []entities.TutorAvailability `json:"availability"`
	}
	decode(t, w, &list)
	require.Len(t, list.Availability, 7)
	assert.Equal(t, "UTC", list.Availability[0].Timezone)

	w = f.do(t, http.MethodGet, "/api/v1/tutors/"+tutorID.String()+"/slots?tz=Asia/Tokyo&days=3", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var slots struct {
		Slots []entities.Slot `json:"slots"`
	}
	decode(t, w, &slots)
	require.NotEmpty(t, slots.Slots)
	assert.LessOrEqual(t, len(slots.Slots), 6)
	assert.Contains(t, w.Body.String(), "+09:00")
	for i, s := range slots.Slots {
		assert.Equal(t, time.Hour, s.End.Sub(s.Start))
		if i > 0 {
			assert.False(t, s.Start.Before(slots.Slots[i-1].Start))
		}
	}

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/v1/tutors/"+tutorID.String()+"/slots?tz=Nowhere/City", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/v1/tutors/"+uuid.NewString()+"/slots", "", nil).Code)

	w = f.do(t, http.MethodPut, "/api/v1/tutors/me/availability", tutor, gin.H{"windows": []gin.H{{"weekday": 1, "startTime": "12:00", "endTime": "10:00"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = f.do(t, http.MethodPut, "/api/v1/tutors/me/availability", tutor, gin.H{"windows": []gin.H{{"weekday": 9, "startTime": "10:00", "endTime": "12:00"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = f.do(t, http.MethodPut, "/api/v1/tutors/me/availability", student, gin.H{"windows": windows})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
