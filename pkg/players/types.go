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

package players

import (
	"strings"
)

// Gender of a player.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Role governs what a player may do when acting as an editor.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
)

// Player is both the create/update payload and the core of the response.
// A nil field is absent: it is omitted from requests, so partial updates
// only carry what is set.
type Player struct {
	Age        *int    `json:"age,omitempty"`
	Gender     *string `json:"gender,omitempty"`
	Login      *string `json:"login,omitempty"`
	Password   *string `json:"password,omitempty"`
	Role       *string `json:"role,omitempty"`
	ScreenName *string `json:"screenName,omitempty"`
}

// PlayerResponse is returned by create, get and update.
type PlayerResponse struct {
	PlayerID   int64  `json:"playerId"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	Login      string `json:"login"`
	Password   string `json:"password,omitempty"`
	Role       string `json:"role"`
	ScreenName string `json:"screenName"`
}

// PlayerItem is the abbreviated player returned by get all.
type PlayerItem struct {
	PlayerID   int64  `json:"playerId"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	Role       string `json:"role"`
	ScreenName string `json:"screenName"`
}

// PlayersResponse is returned by get all.
type PlayersResponse struct {
	Players []PlayerItem `json:"players"`
}

// IDs returns the identifiers of all listed players.
func (r PlayersResponse) IDs() []int64 {
	ids := make([]int64, len(r.Players))

	for i := range r.Players {
		ids[i] = r.Players[i].PlayerID
	}

	return ids
}

// ErrorBody describes why a request failed.
type ErrorBody struct {
	Title  string `json:"title"`
	Status int    `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
	Type   string `json:"type,omitempty"`
}

// ContainsAny reports whether the title contains any of the substrings,
// ignoring case.  The vocabulary is owned by the remote service so callers
// usually offer several candidates.
func (e ErrorBody) ContainsAny(substrings ...string) bool {
	title := strings.ToLower(e.Title)

	for _, s := range substrings {
		if strings.Contains(title, strings.ToLower(s)) {
			return true
		}
	}

	return false
}
