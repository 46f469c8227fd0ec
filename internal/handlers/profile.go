package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avoronov/devlink/internal/database"
	"github.com/avoronov/devlink/internal/github"
	"github.com/avoronov/devlink/internal/handlers/dto"
	"github.com/avoronov/devlink/internal/middleware"
	"github.com/avoronov/devlink/internal/models"
)

// ProfileStore is the slice of the database the profile handlers need.
type ProfileStore interface {
	GetProfileByUserID(userID string) (*models.Profile, error)
	GetAllProfiles() ([]models.Profile, error)
	UpsertProfile(profile *models.Profile, columns []string) (*models.Profile, error)
	AddExperience(exp *models.Experience) error
	DeleteExperience(profileID, expID string) error
	AddEducation(edu *models.Education) error
	DeleteEducation(profileID, eduID string) error
	DeleteAccount(userID string) error
}

// RepoLister fetches public repositories for a github username.
type RepoLister interface {
	Repos(ctx context.Context, username string) ([]github.Repo, error)
}

type ProfileHandler struct {
	store  ProfileStore
	github RepoLister
}

func NewProfileHandler(store ProfileStore, gh RepoLister) *ProfileHandler {
	return &ProfileHandler{store: store, github: gh}
}

// GetMyProfile returns the caller's profile.
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	profile, err := h.store.GetProfileByUserID(userID.String())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "there is no profile for this user"})
			return
		}
		log.Printf("get profile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, formatProfileResponse(profile))
}

// UpsertProfile creates the caller's profile or updates only the fields
// present in the request, in one atomic write.
func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrors(err))
		return
	}

	profile := &models.Profile{
		UserID: userID,
		Status: req.Status,
		Skills: splitSkills(req.Skills),
		Social: models.SocialLinks{
			Youtube:   req.Youtube,
			Twitter:   req.Twitter,
			Facebook:  req.Facebook,
			Linkedin:  req.Linkedin,
			Instagram: req.Instagram,
		},
	}

	// The social mapping is replaced wholesale on every upsert; the scalar
	// fields below only when present in the request.
	columns := []string{"status", "skills", "social", "updated_at"}
	if req.Company != "" {
		profile.Company = req.Company
		columns = append(columns, "company")
	}
	if req.Website != "" {
		profile.Website = req.Website
		columns = append(columns, "website")
	}
	if req.Location != "" {
		profile.Location = req.Location
		columns = append(columns, "location")
	}
	if req.Bio != "" {
		profile.Bio = req.Bio
		columns = append(columns, "bio")
	}
	if req.GithubUsername != "" {
		profile.GithubUsername = req.GithubUsername
		columns = append(columns, "github_username")
	}

	updated, err := h.store.UpsertProfile(profile, columns)
	if err != nil {
		log.Printf("upsert profile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
		return
	}

	c.JSON(http.StatusOK, formatProfileResponse(updated))
}

// GetAllProfiles returns every profile with its owner's name and avatar.
func (h *ProfileHandler) GetAllProfiles(c *gin.Context) {
	profiles, err := h.store.GetAllProfiles()
	if err != nil {
		log.Printf("list profiles failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profiles"})
		return
	}

	result := make([]gin.H, len(profiles))
	for i := range profiles {
		result[i] = formatProfileResponse(&profiles[i])
	}

	c.JSON(http.StatusOK, gin.H{"profiles": result})
}

// GetProfileByUserID returns the profile owned by the given user.
func (h *ProfileHandler) GetProfileByUserID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "profile not found"})
		return
	}

	profile, err := h.store.GetProfileByUserID(userID.String())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "profile not found"})
			return
		}
		log.Printf("get profile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, formatProfileResponse(profile))
}

// DeleteAccount removes the caller's posts, profile and user record.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	if err := h.store.DeleteAccount(userID.String()); err != nil {
		log.Printf("delete account failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "user removed"})
}

// AddExperience prepends a work history entry to the caller's profile.
func (h *ProfileHandler) AddExperience(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrors(err))
		return
	}

	profile, err := h.store.GetProfileByUserID(userID.String())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "there is no profile for this user"})
			return
		}
		log.Printf("get profile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}

	exp := &models.Experience{
		ProfileID:   profile.ID,
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}

	if err := h.store.AddExperience(exp); err != nil {
		log.Printf("add experience failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add experience"})
		return
	}

	h.respondWithProfile(c, userID)
}

// DeleteExperience removes one entry by its id; an unknown id is a 404,
// never a removal of some other entry.
func (h *ProfileHandler) DeleteExperience(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)
	expID := c.Param("id")

	profile, err := h.store.GetProfileByUserID(userID.String())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "there is no profile for this user"})
			return
		}
		log.Printf("get profile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}

	if _, err := uuid.Parse(expID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "experience entry not found"})
		return
	}

	if err := h.store.DeleteExperience(profile.ID.String(), expID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "experience entry not found"})
			return
		}
		log.Printf("delete experience failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete experience"})
		return
	}

	h.respondWithProfile(c, userID)
}

// AddEducation prepends an education entry to the caller's profile.
func (h *ProfileHandler) AddEducation(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrors(err))
		return
	}

	profile, err := h.store.GetProfileByUserID(userID.String())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "there is no profile for this user"})
			return
		}
		log.Printf("get profile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}

	edu := &models.Education{
		ProfileID:    profile.ID,
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
		CreatedAt:    time.Now(),
	}

	if err := h.store.AddEducation(edu); err != nil {
		log.Printf("add education failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add education"})
		return
	}

	h.respondWithProfile(c, userID)
}

func (h *ProfileHandler) DeleteEducation(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)
	eduID := c.Param("id")

	profile, err := h.store.GetProfileByUserID(userID.String())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "there is no profile for this user"})
			return
		}
		log.Printf("get profile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}

	if _, err := uuid.Parse(eduID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "education entry not found"})
		return
	}

	if err := h.store.DeleteEducation(profile.ID.String(), eduID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "education entry not found"})
			return
		}
		log.Printf("delete education failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete education"})
		return
	}

	h.respondWithProfile(c, userID)
}

// GetGithubRepos proxies up to five of the user's public repositories,
// oldest first, straight from the GitHub API.
func (h *ProfileHandler) GetGithubRepos(c *gin.Context) {
	username := c.Param("username")

	repos, err := h.github.Repos(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, github.ErrNoProfile) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "no github profile found"})
			return
		}
		log.Printf("github lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch repos"})
		return
	}

	c.JSON(http.StatusOK, repos)
}

func (h *ProfileHandler) respondWithProfile(c *gin.Context, userID uuid.UUID) {
	profile, err := h.store.GetProfileByUserID(userID.String())
	if err != nil {
		log.Printf("reload profile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}
	c.JSON(http.StatusOK, formatProfileResponse(profile))
}

// splitSkills turns the comma-delimited skills string into a trimmed list.
func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func formatProfileResponse(profile *models.Profile) gin.H {
	experience := make([]gin.H, len(profile.Experience))
	for i, exp := range profile.Experience {
		experience[i] = gin.H{
			"id":          exp.ID,
			"title":       exp.Title,
			"company":     exp.Company,
			"location":    exp.Location,
			"from":        exp.From,
			"to":          exp.To,
			"current":     exp.Current,
			"description": exp.Description,
		}
	}

	education := make([]gin.H, len(profile.Education))
	for i, edu := range profile.Education {
		education[i] = gin.H{
			"id":           edu.ID,
			"school":       edu.School,
			"degree":       edu.Degree,
			"fieldofstudy": edu.FieldOfStudy,
			"from":         edu.From,
			"to":           edu.To,
			"current":      edu.Current,
			"description":  edu.Description,
		}
	}

	response := gin.H{
		"id":             profile.ID,
		"user_id":        profile.UserID,
		"status":         profile.Status,
		"company":        profile.Company,
		"location":       profile.Location,
		"website":        profile.Website,
		"bio":            profile.Bio,
		"githubusername": profile.GithubUsername,
		"skills":         profile.Skills,
		"social":         profile.Social,
		"experience":     experience,
		"education":      education,
	}

	if profile.User.ID != uuid.Nil {
		response["user"] = gin.H{
			"id":     profile.User.ID,
			"name":   profile.User.Name,
			"avatar": profile.User.AvatarURL,
		}
	}

	return response
}
