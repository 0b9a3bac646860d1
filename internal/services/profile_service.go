package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"travelmind/internal/config"
	dbm "travelmind/internal/models/db_models"
	"travelmind/internal/models/request_models"
	"travelmind/internal/models/response_models"
	"travelmind/internal/repositories"
	"travelmind/pkg/utils"
)

var avatarExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

type ProfileServiceInterface interface {
	Get(ctx context.Context, userID uuid.UUID) (*response_models.ProfileResponse, error)
	Upsert(ctx context.Context, userID uuid.UUID, req request_models.UpsertProfileRequest) (*response_models.ProfileResponse, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, patch map[string]json.RawMessage) (*response_models.ProfileResponse, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, r io.Reader) (*response_models.ProfileResponse, error)
}

type ProfileService struct {
	profileRepo repositories.ProfileRepository
	storage     ObjectStorageInterface
	cfg         config.StorageConfig
}

func NewProfileService(profileRepo repositories.ProfileRepository, storage ObjectStorageInterface, cfg config.StorageConfig) ProfileServiceInterface {
	return &ProfileService{
		profileRepo: profileRepo,
		storage:     storage,
		cfg:         cfg,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*response_models.ProfileResponse, error) {
	profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, utils.ErrProfileNotFound
	}
	return toProfileResponse(profile), nil
}

func (s *ProfileService) Upsert(ctx context.Context, userID uuid.UUID, req request_models.UpsertProfileRequest) (*response_models.ProfileResponse, error) {
	username := strings.TrimSpace(req.Username)
	if n := len([]rune(username)); n < 3 || n > 50 {
		return nil, fmt.Errorf("%w: username must be 3 to 50 characters", utils.ErrInvalidInput)
	}

	existing, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := &dbm.UserProfile{UserID: userID}
	if existing != nil {
		profile = existing
	}
	profile.Username = username

	if len(req.Preferences) > 0 {
		prefs, err := decodePreferences(req.Preferences)
		if err != nil {
			return nil, err
		}
		if profile.Preferences, err = encodePreferences(prefs); err != nil {
			return nil, err
		}
	}
	if len(profile.Preferences) == 0 {
		profile.Preferences = datatypes.JSON("{}")
	}
	profile.UpdatedAt = time.Now().Unix()

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("%w: upsert profile: %v", utils.ErrDatabaseError, err)
	}
	return toProfileResponse(profile), nil
}

// UpdatePreferences merges patch into the top level of the stored
// preferences. A JSON null removes the key.
func (s *ProfileService) UpdatePreferences(ctx context.Context, userID uuid.UUID, patch map[string]json.RawMessage) (*response_models.ProfileResponse, error) {
	profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, utils.ErrProfileNotFound
	}

	current, err := decodePreferences(json.RawMessage(profile.Preferences))
	if err != nil {
		current = map[string]json.RawMessage{}
	}
	mergePreferences(current, patch)
	if profile.Preferences, err = encodePreferences(current); err != nil {
		return nil, err
	}
	profile.UpdatedAt = time.Now().Unix()

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("%w: update preferences: %v", utils.ErrDatabaseError, err)
	}
	return toProfileResponse(profile), nil
}

func (s *ProfileService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, r io.Reader) (*response_models.ProfileResponse, error) {
	profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, utils.ErrProfileNotFound
	}

	limit := s.cfg.MaxBytes
	if limit <= 0 {
		limit = 2 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %v", utils.ErrInvalidInput, err)
	}
	if int64(len(data)) > limit {
		return nil, utils.ErrPayloadTooLarge
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", utils.ErrInvalidInput)
	}

	// The sniffed type wins over the client's claim.
	sniffed := http.DetectContentType(data)
	ext, ok := avatarExtensions[sniffed]
	if !ok {
		return nil, fmt.Errorf("%w: %s (%s)", utils.ErrUnsupportedMedia, sniffed, filename)
	}
	if declared := strings.TrimSpace(strings.Split(contentType, ";")[0]); declared != "" && declared != "application/octet-stream" && declared != sniffed {
		return nil, fmt.Errorf("%w: declared %s but file is %s", utils.ErrUnsupportedMedia, declared, sniffed)
	}

	objectPath := fmt.Sprintf("%s/%s.%s", userID, uuid.New(), ext)
	publicURL, err := s.storage.Upload(ctx, s.cfg.AvatarBucket, objectPath, sniffed, data)
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.UpdateAvatar(ctx, userID, publicURL); err != nil {
		return nil, fmt.Errorf("%w: save avatar url: %v", utils.ErrDatabaseError, err)
	}
	profile.AvatarURL = publicURL
	return toProfileResponse(profile), nil
}

func (s *ProfileService) load(ctx context.Context, userID uuid.UUID) (*dbm.UserProfile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: find profile: %v", utils.ErrDatabaseError, err)
	}
	return profile, nil
}

func mergePreferences(current, patch map[string]json.RawMessage) {
	for k, v := range patch {
		if len(bytes.TrimSpace(v)) == 0 || string(bytes.TrimSpace(v)) == "null" {
			delete(current, k)
			continue
		}
		current[k] = v
	}
}

func decodePreferences(raw json.RawMessage) (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: preferences must be a JSON object", utils.ErrInvalidInput)
	}
	return out, nil
}

func encodePreferences(prefs map[string]json.RawMessage) (datatypes.JSON, error) {
	b, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}
	return datatypes.JSON(b), nil
}

func toProfileResponse(p *dbm.UserProfile) *response_models.ProfileResponse {
	prefs := json.RawMessage(p.Preferences)
	if len(prefs) == 0 {
		prefs = json.RawMessage("{}")
	}
	return &response_models.ProfileResponse{
		UserID:      p.UserID.String(),
		Username:    p.Username,
		AvatarURL:   p.AvatarURL,
		Preferences: prefs,
		UpdatedAt:   time.Unix(p.UpdatedAt, 0).UTC().Format(time.RFC3339),
	}
}
