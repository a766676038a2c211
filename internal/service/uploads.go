package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "futspot/internal/errors"
	"futspot/internal/models"
	"futspot/internal/repository"
	"futspot/internal/storage"
)

const msgUnsupportedImage = "Formato de imagem não suportado. Envie JPEG, PNG ou WEBP."

var errStorageDisabled = errors.New("photo storage is not configured")

type UploadService struct {
	store  repository.Store
	photos PhotoStore
	fx     *effects
}

func NewUploadService(store repository.Store, photos PhotoStore, fx *effects) *UploadService {
	return &UploadService{store: store, photos: photos, fx: fx}
}

func (s *UploadService) upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if s.photos == nil {
		return "", apperrors.Internal(errStorageDisabled)
	}
	url, err := s.photos.Upload(ctx, key, contentType, data)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	return url, nil
}

// VenuePhoto uploads an image and appends it to the venue's photo list.
func (s *UploadService) VenuePhoto(ctx context.Context, ownerID, venueID int64, contentType string, data []byte) (*models.PhotoResponse, error) {
	venue, err := ownedVenue(ctx, s.store, ownerID, venueID)
	if err != nil {
		return nil, err
	}

	key, err := storage.VenuePhotoKey(venue.ID, venue.Name, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			return nil, apperrors.Validation(msgUnsupportedImage)
		}
		return nil, fmt.Errorf("failed to build photo key: %w", err)
	}

	url, err := s.upload(ctx, key, contentType, data)
	if err != nil {
		return nil, err
	}
	if err := s.store.Venues().AppendPhoto(ctx, venue.ID, url); err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}

	venue.Photos = append(venue.Photos, url)
	s.fx.indexVenue(ctx, venue)
	return &models.PhotoResponse{URL: url}, nil
}

// ProfilePhoto uploads an image and sets it as the user's avatar.
func (s *UploadService) ProfilePhoto(ctx context.Context, userID int64, contentType string, data []byte) (*models.PhotoResponse, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NotFound(msgUserNotFound)
	}

	key, err := storage.ProfilePhotoKey(userID, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			return nil, apperrors.Validation(msgUnsupportedImage)
		}
		return nil, fmt.Errorf("failed to build photo key: %w", err)
	}

	url, err := s.upload(ctx, key, contentType, data)
	if err != nil {
		return nil, err
	}
	if err := s.store.Users().UpdatePhoto(ctx, userID, url); err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}
	s.fx.invalidatePlayer(ctx, s.store, userID)
	return &models.PhotoResponse{URL: url}, nil
}
