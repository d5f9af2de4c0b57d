package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/court-records-api/api"
	"github.com/linesmerrill/court-records-api/models"
	"github.com/linesmerrill/court-records-api/workflow"
)

// User exposes account routes
type User struct {
	WF *workflow.Coordinator
}

// SignupHandler creates an account for an anonymous caller
func (u User) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var body models.NewUser
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	created, err := u.WF.Signup(ctx, body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// LoginHandler exchanges credentials for a bearer token
func (u User) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var body models.Credentials
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	resp, err := u.WF.Login(ctx, body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// MeHandler returns the caller's profile
func (u User) MeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	me, err := u.WF.Me(ctx, actorOf(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, me)
}

// ProfileHandler returns the profile in the path
func (u User) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	profile, err := u.WF.Profile(ctx, actorOf(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateBioHandler changes the bio of the profile in the path
func (u User) UpdateBioHandler(w http.ResponseWriter, r *http.Request) {
	var body models.BioRequest
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	updated, err := u.WF.UpdateBio(ctx, actorOf(r), mux.Vars(r)["id"], body.Bio)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// UserListHandler returns every account
func (u User) UserListHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	users, err := u.WF.ListUsers(ctx, actorOf(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// CreateUserHandler creates an account on behalf of a registrar
func (u User) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var body models.NewUser
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	created, err := u.WF.CreateUser(ctx, actorOf(r), body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteUserHandler removes the account in the path
func (u User) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	if err := u.WF.DeleteUser(ctx, actorOf(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
