package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"github.com/yukikurage/vcc-collab-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingFields        = errors.New("name, email and password are required")
	ErrEmailTaken           = errors.New("email already registered")
	ErrNameTaken            = errors.New("name already taken")
	ErrUserNotFound         = errors.New("user not found")
	ErrWrongPassword        = errors.New("wrong password")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)


// AuthService is the user directory: registration, login, the current-user
// pointer and profile edits. Users are referenced by name from projects, so
// every name lookup in the system goes through GetByName.
type AuthService struct {
	userRepo      repository.UserRepository
	sessionRepo   repository.SessionRepository
	clock         clock.Clock
	hashPasswords bool
}

// NewAuthService creates a new AuthService. With hashPasswords set, new
// passwords are stored as bcrypt hashes.
func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, clk clock.Clock, hashPasswords bool) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		clock:         clk,
		hashPasswords: hashPasswords,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a user and makes it the current user.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	password := input.Password
	if s.hashPasswords {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		password = string(hashed)
	}

	user := models.User{
		ID:          uuid.NewString(),
		Name:        name,
		Email:       email,
		Password:    password,
		Skills:      []string{},
		Badges:      []string{},
		Experiences: []models.Experience{},
		Links:       models.Links{},
		CreatedAt:   s.clock.Now(),
	}

	_, err := s.userRepo.Update(func(users *[]models.User) error {
		for _, u := range *users {
			if strings.EqualFold(u.Email, email) {
				return ErrEmailTaken
			}
			if strings.EqualFold(u.Name, name) {
				return ErrNameTaken
			}
		}
		*users = append([]models.User{user}, *users...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Set(&user); err != nil {
		return nil, fmt.Errorf("failed to set current user: %w", err)
	}
	return &user, nil
}

// Login verifies credentials and makes the user current.
func (s *AuthService) Login(email, password string) (*models.User, error) {
	user, err := s.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if !passwordMatches(user.Password, password) {
		return nil, ErrWrongPassword
	}
	if err := s.sessionRepo.Set(user); err != nil {
		return nil, fmt.Errorf("failed to set current user: %w", err)
	}
	return user, nil
}

// Stored values that parse as bcrypt hashes are compared as hashes,
// anything else as plaintext.
func passwordMatches(stored, given string) bool {
	if _, err := bcrypt.Cost([]byte(stored)); err == nil {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return stored == given
}

// Logout clears the current user.
func (s *AuthService) Logout() error {
	return s.sessionRepo.Clear()
}

// CurrentUser returns the current user or nil.
func (s *AuthService) CurrentUser() *models.User {
	return s.sessionRepo.Current()
}

// SetCurrentUser replaces the current user.
func (s *AuthService) SetCurrentUser(user *models.User) error {
	return s.sessionRepo.Set(user)
}

// List returns every user in directory order.
func (s *AuthService) List() []models.User {
	return s.userRepo.List()
}

func (s *AuthService) GetByID(id string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.ID == id })
}

// GetByName looks a user up by name, ignoring case.
func (s *AuthService) GetByName(name string) (*models.User, error) {
	if name == "" {
		return nil, ErrUserNotFound
	}
	return s.find(func(u models.User) bool { return strings.EqualFold(u.Name, name) })
}

// GetByEmail looks a user up by email, ignoring case.
func (s *AuthService) GetByEmail(email string) (*models.User, error) {
	if email == "" {
		return nil, ErrUserNotFound
	}
	return s.find(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *AuthService) find(match func(models.User) bool) (*models.User, error) {
	for _, u := range s.userRepo.List() {
		if match(u) {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// Search returns users whose name, email or any skill contains keyword,
// ignoring case. An empty keyword returns everyone.
func (s *AuthService) Search(keyword string) []models.User {
	all := s.userRepo.List()
	if keyword == "" {
		return all
	}
	kw := strings.ToLower(keyword)
	out := []models.User{}
	for _, u := range all {
		if strings.Contains(strings.ToLower(u.Name), kw) ||
			strings.Contains(strings.ToLower(u.Email), kw) ||
			slices.ContainsFunc(u.Skills, func(sk string) bool { return strings.Contains(strings.ToLower(sk), kw) }) {
			out = append(out, u)
		}
	}
	return out
}

// UpdateProfileInput carries the profile fields to replace; nil fields are kept.
type UpdateProfileInput struct {
	Skills      []string
	Bio         *string
	Experiences []models.Experience
	Badges      []string
	Links       models.Links
}

// UpdateProfile replaces the given profile fields of a user.
func (s *AuthService) UpdateProfile(userID string, input UpdateProfileInput) (*models.User, error) {
	return s.updateUser(userID, func(u *models.User) {
		if input.Skills != nil {
			u.Skills = input.Skills
		}
		if input.Bio != nil {
			u.Bio = *input.Bio
		}
		if input.Experiences != nil {
			u.Experiences = input.Experiences
		}
		if input.Badges != nil {
			u.Badges = input.Badges
		}
		if input.Links != nil {
			u.Links = input.Links
		}
	})
}

func (s *AuthService) UpdateSkills(userID string, skills []string) (*models.User, error) {
	return s.updateUser(userID, func(u *models.User) { u.Skills = nonNil(skills) })
}

func (s *AuthService) UpdateBio(userID, bio string) (*models.User, error) {
	return s.updateUser(userID, func(u *models.User) { u.Bio = bio })
}

func (s *AuthService) UpdateExperiences(userID string, exps []models.Experience) (*models.User, error) {
	if exps == nil {
		exps = []models.Experience{}
	}
	return s.updateUser(userID, func(u *models.User) { u.Experiences = exps })
}

func (s *AuthService) UpdateBadges(userID string, badges []string) (*models.User, error) {
	return s.updateUser(userID, func(u *models.User) { u.Badges = nonNil(badges) })
}

func (s *AuthService) UpdateLinks(userID string, links models.Links) (*models.User, error) {
	if links == nil {
		links = models.Links{}
	}
	return s.updateUser(userID, func(u *models.User) { u.Links = links })
}

// updateUser applies fn to the stored user and refreshes the current-user
// pointer when it refers to the same user.
func (s *AuthService) updateUser(userID string, fn func(u *models.User)) (*models.User, error) {
	var updated models.User
	_, err := s.userRepo.Update(func(users *[]models.User) error {
		for i := range *users {
			if (*users)[i].ID == userID {
				fn(&(*users)[i])
				updated = (*users)[i]
				return nil
			}
		}
		return ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}

	if cur := s.sessionRepo.Current(); cur != nil && cur.ID == updated.ID {
		if err := s.sessionRepo.Set(&updated); err != nil {
			return nil, fmt.Errorf("failed to refresh current user: %w", err)
		}
	}
	return &updated, nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
