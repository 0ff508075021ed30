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

// Package generator produces randomised player payloads that satisfy, or
// deliberately violate, the player API validation rules.
package generator

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/unikorn-cloud/player-harness/pkg/config"
	"github.com/unikorn-cloud/player-harness/pkg/players"

	"k8s.io/utils/ptr"
)

const (
	letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"

	// InvalidGender and InvalidRole are rejected by the service.
	InvalidGender = "invalid_gender"
	InvalidRole   = "invalid_role"
)

//nolint:gochecknoglobals
var loginCharset = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Bounds are the validation limits, all inclusive.
type Bounds struct {
	MinAge            int
	MaxAge            int
	MinPasswordLength int
	MaxPasswordLength int
}

// Generator is immutable and safe for concurrent use, every call draws from
// its own random source.
type Generator struct {
	bounds Bounds
}

// New snapshots the bounds from settings.
func New(settings *config.Settings) *Generator {
	return NewWithBounds(Bounds{
		MinAge:            settings.MinAge,
		MaxAge:            settings.MaxAge,
		MinPasswordLength: settings.MinPasswordLength,
		MaxPasswordLength: settings.MaxPasswordLength,
	})
}

// NewWithBounds uses explicit bounds, inverted ranges are collapsed onto
// their minimum.
func NewWithBounds(bounds Bounds) *Generator {
	bounds.MaxAge = max(bounds.MaxAge, bounds.MinAge)
	bounds.MinPasswordLength = max(bounds.MinPasswordLength, 1)
	bounds.MaxPasswordLength = max(bounds.MaxPasswordLength, bounds.MinPasswordLength)

	return &Generator{
		bounds: bounds,
	}
}

// Bounds returns the limits in use.
func (g *Generator) Bounds() Bounds {
	return g.bounds
}

// ValidPlayer returns a player with the user role.
func (g *Generator) ValidPlayer() players.Player {
	return g.ValidPlayerWithRole(players.RoleUser)
}

// ValidPlayerWithRole returns a player that passes every validation rule.
func (g *Generator) ValidPlayerWithRole(role players.Role) players.Player {
	return g.validPlayer(gofakeit.New(0), string(role))
}

func (g *Generator) validPlayer(f *gofakeit.Faker, role string) players.Player {
	return players.Player{
		Age:        ptr.To(g.randomAge(f)),
		Gender:     ptr.To(randomGender(f)),
		Login:      ptr.To(uniqueLogin(f)),
		Password:   ptr.To(g.validPassword(f)),
		Role:       ptr.To(role),
		ScreenName: ptr.To(randomScreenName()),
	}
}

func (g *Generator) InvalidAgeYoung() players.Player {
	p := g.ValidPlayer()
	p.Age = ptr.To(g.bounds.MinAge - 1)

	return p
}

func (g *Generator) InvalidAgeOld() players.Player {
	p := g.ValidPlayer()
	p.Age = ptr.To(g.bounds.MaxAge + 1)

	return p
}

func (g *Generator) InvalidGender() players.Player {
	p := g.ValidPlayer()
	p.Gender = ptr.To(InvalidGender)

	return p
}

func (g *Generator) InvalidRole() players.Player {
	p := g.ValidPlayer()
	p.Role = ptr.To(InvalidRole)

	return p
}

// PasswordTooShort is one character below the minimum, never empty.
func (g *Generator) PasswordTooShort() players.Player {
	f := gofakeit.New(0)

	p := g.validPlayer(f, string(players.RoleUser))
	p.Password = ptr.To(lettersAndDigits(f, max(1, g.bounds.MinPasswordLength-1)))

	return p
}

// PasswordTooLong exceeds the maximum by between one and five characters.
func (g *Generator) PasswordTooLong() players.Player {
	f := gofakeit.New(0)

	p := g.validPlayer(f, string(players.RoleUser))
	p.Password = ptr.To(lettersAndDigits(f, g.bounds.MaxPasswordLength+f.IntRange(1, 5)))

	return p
}

// PasswordNoDigits has a valid length but only letters.
func (g *Generator) PasswordNoDigits() players.Player {
	f := gofakeit.New(0)

	p := g.validPlayer(f, string(players.RoleUser))
	p.Password = ptr.To(fromAlphabet(f, letters, g.passwordLength(f)))

	return p
}

// PasswordNoLetters has a valid length but only digits.
func (g *Generator) PasswordNoLetters() players.Player {
	f := gofakeit.New(0)

	p := g.validPlayer(f, string(players.RoleUser))
	p.Password = ptr.To(fromAlphabet(f, digits, g.passwordLength(f)))

	return p
}

func (g *Generator) DuplicateLogin(existing string) players.Player {
	p := g.ValidPlayer()
	p.Login = ptr.To(existing)

	return p
}

func (g *Generator) DuplicateScreenName(existing string) players.Player {
	p := g.ValidPlayer()
	p.ScreenName = ptr.To(existing)

	return p
}

func (g *Generator) MissingAge() players.Player {
	p := g.ValidPlayer()
	p.Age = nil

	return p
}

func (g *Generator) MissingGender() players.Player {
	p := g.ValidPlayer()
	p.Gender = nil

	return p
}

func (g *Generator) MissingLogin() players.Player {
	p := g.ValidPlayer()
	p.Login = nil

	return p
}

func (g *Generator) MissingPassword() players.Player {
	p := g.ValidPlayer()
	p.Password = nil

	return p
}

func (g *Generator) MissingRole() players.Player {
	p := g.ValidPlayer()
	p.Role = nil

	return p
}

func (g *Generator) MissingScreenName() players.Player {
	p := g.ValidPlayer()
	p.ScreenName = nil

	return p
}

// NullFields only carries an age and a gender.
func (g *Generator) NullFields() players.Player {
	return players.Player{
		Age:    ptr.To(25),
		Gender: ptr.To(string(players.GenderMale)),
	}
}

// PartialUpdate changes age and gender only.
func (g *Generator) PartialUpdate() players.Player {
	f := gofakeit.New(0)

	return players.Player{
		Age:    ptr.To(g.randomAge(f)),
		Gender: ptr.To(randomGender(f)),
	}
}

func (g *Generator) UpdateWithNewLogin() players.Player {
	return players.Player{
		Login: ptr.To(uniqueLogin(gofakeit.New(0))),
	}
}

func (g *Generator) UpdateWithNewScreenName() players.Player {
	return players.Player{
		ScreenName: ptr.To(randomScreenName()),
	}
}

func (g *Generator) UpdateWithNewPassword() players.Player {
	return players.Player{
		Password: ptr.To(g.validPassword(gofakeit.New(0))),
	}
}

// variants maps the names accepted by Variant onto generators.
func (g *Generator) variants() map[string]func() players.Player {
	return map[string]func() players.Player{
		"valid":                  g.ValidPlayer,
		"valid-admin":            func() players.Player { return g.ValidPlayerWithRole(players.RoleAdmin) },
		"invalid-age-young":      g.InvalidAgeYoung,
		"invalid-age-old":        g.InvalidAgeOld,
		"invalid-gender":         g.InvalidGender,
		"invalid-role":           g.InvalidRole,
		"password-too-short":     g.PasswordTooShort,
		"password-too-long":      g.PasswordTooLong,
		"password-no-digits":     g.PasswordNoDigits,
		"password-no-letters":    g.PasswordNoLetters,
		"missing-age":            g.MissingAge,
		"missing-gender":         g.MissingGender,
		"missing-login":          g.MissingLogin,
		"missing-password":       g.MissingPassword,
		"missing-role":           g.MissingRole,
		"missing-screen-name":    g.MissingScreenName,
		"null-fields":            g.NullFields,
		"partial-update":         g.PartialUpdate,
		"update-new-login":       g.UpdateWithNewLogin,
		"update-new-screen-name": g.UpdateWithNewScreenName,
		"update-new-password":    g.UpdateWithNewPassword,
	}
}

// VariantNames lists the names accepted by Variant, sorted.
func (g *Generator) VariantNames() []string {
	names := make([]string, 0, len(g.variants()))

	for name := range g.variants() {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Variant generates a payload by name.
func (g *Generator) Variant(name string) (players.Player, error) {
	generate, ok := g.variants()[name]
	if !ok {
		return players.Player{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}

	return generate(), nil
}

func (g *Generator) randomAge(f *gofakeit.Faker) int {
	return f.IntRange(g.bounds.MinAge, g.bounds.MaxAge)
}

func (g *Generator) passwordLength(f *gofakeit.Faker) int {
	return f.IntRange(g.bounds.MinPasswordLength, g.bounds.MaxPasswordLength)
}

func (g *Generator) validPassword(f *gofakeit.Faker) string {
	return lettersAndDigits(f, g.passwordLength(f))
}

func randomGender(f *gofakeit.Faker) string {
	return f.RandomString([]string{string(players.GenderMale), string(players.GenderFemale)})
}

// uniqueLogin combines a fake username with a random suffix to keep
// concurrent generation collision free.
func uniqueLogin(f *gofakeit.Faker) string {
	base := loginCharset.ReplaceAllString(f.Username(), "")
	if base == "" {
		base = "player"
	}

	suffix := strconv.FormatInt(int64(f.IntRange(0, 0xfffe)), 16)

	return strings.ToLower(base + "_" + suffix)
}

func randomScreenName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// lettersAndDigits guarantees one letter and one digit by fixing the first
// two characters, the rest is drawn from both alphabets.  A length of one
// or less yields a single letter so the result is never longer than asked.
func lettersAndDigits(f *gofakeit.Faker, length int) string {
	if length <= 1 {
		return fromAlphabet(f, letters, 1)
	}

	var sb strings.Builder

	sb.Grow(length)
	sb.WriteByte(letters[f.IntRange(0, len(letters)-1)])
	sb.WriteByte(digits[f.IntRange(0, len(digits)-1)])
	sb.WriteString(fromAlphabet(f, letters+digits, length-2))

	return sb.String()
}

func fromAlphabet(f *gofakeit.Faker, alphabet string, length int) string {
	b := make([]byte, length)

	for i := range b {
		b[i] = alphabet[f.IntRange(0, len(alphabet)-1)]
	}

	return string(b)
}
