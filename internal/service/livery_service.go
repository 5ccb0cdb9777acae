package service

import (
	"context"
	"strings"

	"github.com/liverylibrary/backend/internal/media"
	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/repository/db"

	"gorm.io/datatypes"
)

type LiveryService struct {
	*catalog[model.Livery]
}

func NewLiveryService(repo *db.ResourceRepository[model.Livery], engagement *EngagementService, uploads *UploadService) *LiveryService {
	return &LiveryService{&catalog[model.Livery]{
		repo:       repo,
		engagement: engagement,
		uploads:    uploads,
		folder:     media.FolderLiveries,
	}}
}

type LiveryInput struct {
	Name        string
	Aircraft    string
	Description string
	Tags        []string
	DecalIDs    []string
	Exclusive   bool
}

type LiveryPatch struct {
	Name        *string   `json:"name"`
	Aircraft    *string   `json:"aircraft"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	DecalIDs    *[]string `json:"decalIds"`
	Exclusive   *bool     `json:"exclusive"`
}

func (s *LiveryService) Get(ctx context.Context, id uint64) (*model.Livery, error) {
	livery, comments, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	livery.Comments = comments
	return livery, nil
}

// Create uploads the images first and writes the record only when every upload succeeded.
func (s *LiveryService) Create(ctx context.Context, actor model.Actor, in LiveryInput, files []media.File) (*model.Livery, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Aircraft = strings.TrimSpace(in.Aircraft)
	if in.Name == "" || in.Aircraft == "" {
		return nil, invalid("name and aircraft are required")
	}

	uploaded, err := s.uploads.UploadAll(ctx, s.folder, files)
	if err != nil {
		return nil, err
	}
	livery := &model.Livery{
		Name:        in.Name,
		Aircraft:    in.Aircraft,
		AuthorID:    actor.ID,
		Description: strings.TrimSpace(in.Description),
		Tags:        normalizeTags(in.Tags),
		DecalIDs:    compact(in.DecalIDs),
		Images:      urls(uploaded),
		Exclusive:   in.Exclusive,
	}
	if err := s.repo.Create(ctx, livery); err != nil {
		s.uploads.Discard(ctx, uploaded)
		return nil, err
	}
	return livery, nil
}

func (s *LiveryService) Update(ctx context.Context, actor model.Actor, id uint64, p LiveryPatch) (*model.Livery, error) {
	fields := map[string]any{}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, invalid("name cannot be empty")
		}
		fields["name"] = name
	}
	if p.Aircraft != nil {
		aircraft := strings.TrimSpace(*p.Aircraft)
		if aircraft == "" {
			return nil, invalid("aircraft cannot be empty")
		}
		fields["aircraft"] = aircraft
	}
	if p.Description != nil {
		fields["description"] = strings.TrimSpace(*p.Description)
	}
	if p.Tags != nil {
		fields["tags"] = datatypes.JSONSlice[string](normalizeTags(*p.Tags))
	}
	if p.DecalIDs != nil {
		fields["decal_ids"] = datatypes.JSONSlice[string](compact(*p.DecalIDs))
	}
	if p.Exclusive != nil {
		fields["exclusive"] = *p.Exclusive
	}
	if len(fields) == 0 {
		return nil, invalid("nothing to update")
	}

	if err := s.authorizeUpdate(ctx, actor, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, notFound("livery", err)
	}
	return s.Get(ctx, id)
}
