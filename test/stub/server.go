/*
Copyright 2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package stub is an in-memory player API used to run the harness without
// a remote service.  It follows the remote's documented rules, including its
// quirks.
package stub

import (
	"math"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	jsoniter "github.com/json-iterator/go"

	"github.com/unikorn-cloud/player-harness/pkg/config"
	"github.com/unikorn-cloud/player-harness/pkg/players"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

//nolint:gochecknoglobals
var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// SupervisorID is the seeded supervisor, it cannot be deleted.
	SupervisorID int64 = 1
	// AdminID is the seeded admin.
	AdminID int64 = 2
)

// Server is the fake player API.
type Server struct {
	settings *config.Settings
	router   *chi.Mux
	logger   logr.Logger

	lock    sync.RWMutex
	players map[int64]players.PlayerResponse
	nextID  int64
}

// New creates a server seeded with the configured supervisor and admin.
// Routes are the configured endpoint templates.
func New(settings *config.Settings) *Server {
	s := &Server{
		settings: settings,
		logger:   log.Log.WithName("stub"),
		players: map[int64]players.PlayerResponse{
			SupervisorID: {
				PlayerID:   SupervisorID,
				Age:        28,
				Gender:     string(players.GenderMale),
				Login:      settings.SupervisorLogin,
				Password:   "supervisor1",
				Role:       string(players.RoleSupervisor),
				ScreenName: "supervisor",
			},
			AdminID: {
				PlayerID:   AdminID,
				Age:        30,
				Gender:     string(players.GenderFemale),
				Login:      settings.AdminLogin,
				Password:   "admin1234",
				Role:       string(players.RoleAdmin),
				ScreenName: "admin",
			},
		},
		nextID: AdminID + 1,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get(settings.Endpoints.Create, s.handleCreate)
	r.Post(settings.Endpoints.Get, s.handleGet)
	r.Get(settings.Endpoints.GetAll, s.handleGetAll)
	r.Patch(settings.Endpoints.Update, s.handleUpdate)
	r.Delete(settings.Endpoints.Delete, s.handleDelete)

	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start serves the API on a loopback port, the caller must close it.
func (s *Server) Start() *httptest.Server {
	return httptest.NewServer(s)
}

// Len is the number of stored players.
func (s *Server) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.players)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, title string) {
	s.logger.V(1).Info("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "title", title)

	writeJSON(w, status, players.ErrorBody{
		Title:  title,
		Status: status,
	})
}

// validID reports whether an ID is in the range the remote accepts.
func validID(id int64) bool {
	return id > 0 && id < math.MaxInt32
}

type playerIDRequest struct {
	PlayerID *int64 `json:"playerId"`
}

func (s *Server) readPlayerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var request playerIDRequest

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Malformed request body")
		return 0, false
	}

	if request.PlayerID == nil {
		s.writeError(w, r, http.StatusBadRequest, "playerId is required")
		return 0, false
	}

	if !validID(*request.PlayerID) {
		s.writeError(w, r, http.StatusBadRequest, "playerId is out of range")
		return 0, false
	}

	return *request.PlayerID, true
}

// lookupLogin must be called with the lock held.
func (s *Server) lookupLogin(login string) (players.PlayerResponse, bool) {
	for _, p := range s.players {
		if p.Login == login {
			return p, true
		}
	}

	return players.PlayerResponse{}, false
}

// taken reports whether another player uses a login or screen name, it must
// be called with the lock held.
func (s *Server) taken(id int64, match func(players.PlayerResponse) bool) bool {
	for _, p := range s.players {
		if p.PlayerID != id && match(p) {
			return true
		}
	}

	return false
}

func validPassword(settings *config.Settings, password string) bool {
	if n := len(password); n < settings.MinPasswordLength || n > settings.MaxPasswordLength {
		return false
	}

	var letter, digit bool

	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			letter = true
		default:
			return false
		}
	}

	return letter && digit
}

func validGender(gender string) bool {
	return gender == string(players.GenderMale) || gender == string(players.GenderFemale)
}

func validRole(role string) bool {
	return role == string(players.RoleAdmin) || role == string(players.RoleUser)
}

func (s *Server) ageError() string {
	return "Age is invalid: user should be older than " + strconv.Itoa(s.settings.MinAge) + " and younger than " + strconv.Itoa(s.settings.MaxAge)
}

func (s *Server) validAge(age int) bool {
	return age >= s.settings.MinAge && age <= s.settings.MaxAge
}

//nolint:cyclop
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	editorLogin := chi.URLParam(r, "editor")
	query := r.URL.Query()

	s.lock.Lock()
	defer s.lock.Unlock()

	editor, ok := s.lookupLogin(editorLogin)
	if !ok || editor.Role == string(players.RoleUser) {
		s.writeError(w, r, http.StatusForbidden, "Only those with role 'supervisor' or 'admin' can create users")
		return
	}

	role := query.Get("role")

	if editor.Role == string(players.RoleAdmin) && role == string(players.RoleSupervisor) {
		s.writeError(w, r, http.StatusForbidden, "Admin cannot create supervisor")
		return
	}

	for _, field := range []string{"age", "gender", "login", "password", "role", "screenName"} {
		if strings.TrimSpace(query.Get(field)) == "" {
			s.writeError(w, r, http.StatusBadRequest, field+" is required")
			return
		}
	}

	age, err := strconv.Atoi(query.Get("age"))
	if err != nil || !s.validAge(age) {
		s.writeError(w, r, http.StatusBadRequest, s.ageError())
		return
	}

	player := players.PlayerResponse{
		Age:        age,
		Gender:     query.Get("gender"),
		Login:      query.Get("login"),
		Password:   query.Get("password"),
		Role:       role,
		ScreenName: query.Get("screenName"),
	}

	switch {
	case !validGender(player.Gender):
		s.writeError(w, r, http.StatusBadRequest, "Gender must be 'male' or 'female'")
		return
	case !validPassword(s.settings, player.Password):
		s.writeError(w, r, http.StatusBadRequest, s.passwordError())
		return
	case !validRole(player.Role):
		s.writeError(w, r, http.StatusBadRequest, "Role must be 'admin' or 'user'")
		return
	case s.taken(0, func(p players.PlayerResponse) bool { return p.Login == player.Login }):
		s.writeError(w, r, http.StatusBadRequest, "Login '"+player.Login+"' is already taken")
		return
	case s.taken(0, func(p players.PlayerResponse) bool { return p.ScreenName == player.ScreenName }):
		s.writeError(w, r, http.StatusBadRequest, "Screen name '"+player.ScreenName+"' is already taken")
		return
	}

	player.PlayerID = s.nextID
	s.nextID++

	s.players[player.PlayerID] = player

	writeJSON(w, http.StatusOK, player)
}

func (s *Server) passwordError() string {
	return "Password must contain latin letters and numbers (min " + strconv.Itoa(s.settings.MinPasswordLength) + " max " + strconv.Itoa(s.settings.MaxPasswordLength) + " characters)"
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.readPlayerID(w, r)
	if !ok {
		return
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	player, ok := s.players[id]
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "Player with id "+strconv.FormatInt(id, 10)+" does not exist")
		return
	}

	writeJSON(w, http.StatusOK, player)
}

func (s *Server) handleGetAll(w http.ResponseWriter, r *http.Request) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	response := players.PlayersResponse{
		Players: make([]players.PlayerItem, 0, len(s.players)),
	}

	for _, p := range s.players {
		response.Players = append(response.Players, players.PlayerItem{
			PlayerID:   p.PlayerID,
			Age:        p.Age,
			Gender:     p.Gender,
			Role:       p.Role,
			ScreenName: p.ScreenName,
		})
	}

	slices.SortFunc(response.Players, func(a, b players.PlayerItem) int {
		return int(a.PlayerID - b.PlayerID)
	})

	writeJSON(w, http.StatusOK, response)
}

// canModify reports whether editor may update or delete target.
func canModify(editor, target players.PlayerResponse) bool {
	switch players.Role(editor.Role) {
	case players.RoleSupervisor:
		return true
	case players.RoleAdmin:
		return target.Role != string(players.RoleSupervisor)
	default:
		return editor.PlayerID == target.PlayerID
	}
}

//nolint:cyclop
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || !validID(id) {
		s.writeError(w, r, http.StatusBadRequest, "id is invalid")
		return
	}

	var update players.Player

	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Malformed request body")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	editor, ok := s.lookupLogin(chi.URLParam(r, "editor"))
	if !ok {
		s.writeError(w, r, http.StatusForbidden, "Editor is not allowed to update users")
		return
	}

	player, ok := s.players[id]
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "Player with id "+strconv.FormatInt(id, 10)+" does not exist")
		return
	}

	if !canModify(editor, player) {
		s.writeError(w, r, http.StatusForbidden, "Only those with role 'supervisor' or 'admin' can update other users")
		return
	}

	// The remote reports an out of range age on update as forbidden.
	if update.Age != nil {
		if !s.validAge(*update.Age) {
			s.writeError(w, r, http.StatusForbidden, s.ageError())
			return
		}

		player.Age = *update.Age
	}

	if update.Gender != nil {
		if !validGender(*update.Gender) {
			s.writeError(w, r, http.StatusBadRequest, "Gender must be 'male' or 'female'")
			return
		}

		player.Gender = *update.Gender
	}

	if update.Password != nil {
		if !validPassword(s.settings, *update.Password) {
			s.writeError(w, r, http.StatusBadRequest, s.passwordError())
			return
		}

		player.Password = *update.Password
	}

	if update.Role != nil {
		if !validRole(*update.Role) || player.Role == string(players.RoleSupervisor) {
			s.writeError(w, r, http.StatusBadRequest, "Role must be 'admin' or 'user'")
			return
		}

		player.Role = *update.Role
	}

	if update.Login != nil {
		login := *update.Login

		if login == "" || s.taken(id, func(p players.PlayerResponse) bool { return p.Login == login }) {
			s.writeError(w, r, http.StatusBadRequest, "Login '"+login+"' is already taken")
			return
		}

		player.Login = login
	}

	if update.ScreenName != nil {
		screenName := *update.ScreenName

		if screenName == "" || s.taken(id, func(p players.PlayerResponse) bool { return p.ScreenName == screenName }) {
			s.writeError(w, r, http.StatusBadRequest, "Screen name '"+screenName+"' is already taken")
			return
		}

		player.ScreenName = screenName
	}

	s.players[id] = player

	response := player
	response.Password = ""

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.readPlayerID(w, r)
	if !ok {
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	editor, ok := s.lookupLogin(chi.URLParam(r, "editor"))
	if !ok {
		s.writeError(w, r, http.StatusForbidden, "Editor is not allowed to delete users")
		return
	}

	player, ok := s.players[id]
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "Player with id "+strconv.FormatInt(id, 10)+" does not exist")
		return
	}

	switch {
	case player.Role == string(players.RoleSupervisor):
		s.writeError(w, r, http.StatusForbidden, "Supervisor cannot be deleted")
		return
	case editor.PlayerID == player.PlayerID:
		s.writeError(w, r, http.StatusForbidden, "User cannot delete himself")
		return
	case !canModify(editor, player):
		s.writeError(w, r, http.StatusForbidden, "Only those with role 'supervisor' or 'admin' can delete users")
		return
	}

	delete(s.players, id)

	w.WriteHeader(http.StatusNoContent)
}
