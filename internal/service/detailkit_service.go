package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/liverylibrary/backend/internal/media"
	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/repository/db"

	"gorm.io/datatypes"
)

type DetailKitService struct {
	*catalog[model.DetailKit]
}

func NewDetailKitService(repo *db.ResourceRepository[model.DetailKit], engagement *EngagementService, uploads *UploadService) *DetailKitService {
	return &DetailKitService{&catalog[model.DetailKit]{
		repo:       repo,
		engagement: engagement,
		uploads:    uploads,
		folder:     media.FolderDetails,
	}}
}

type DetailKitInput struct {
	Name         string
	Aircraft     string
	Description  string
	Tags         []string
	DownloadLink string
	Exclusive    bool
}

type DetailKitPatch struct {
	Name         *string   `json:"name"`
	Aircraft     *string   `json:"aircraft"`
	Description  *string   `json:"description"`
	Tags         *[]string `json:"tags"`
	DownloadLink *string   `json:"downloadLink"`
	Exclusive    *bool     `json:"exclusive"`
}

func validDownloadLink(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *DetailKitService) Get(ctx context.Context, id uint64) (*model.DetailKit, error) {
	kit, comments, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	kit.Comments = comments
	return kit, nil
}

func (s *DetailKitService) Create(ctx context.Context, actor model.Actor, in DetailKitInput, files []media.File) (*model.DetailKit, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.DownloadLink = strings.TrimSpace(in.DownloadLink)
	if in.Name == "" {
		return nil, invalid("name is required")
	}
	if in.DownloadLink == "" {
		return nil, invalid("download link is required")
	}
	if !validDownloadLink(in.DownloadLink) {
		return nil, invalid("download link must be an http(s) URL")
	}

	uploaded, err := s.uploads.UploadAll(ctx, s.folder, files)
	if err != nil {
		return nil, err
	}
	kit := &model.DetailKit{
		Name:         in.Name,
		Aircraft:     strings.TrimSpace(in.Aircraft),
		AuthorID:     actor.ID,
		Description:  strings.TrimSpace(in.Description),
		Tags:         normalizeTags(in.Tags),
		DownloadLink: in.DownloadLink,
		Images:       urls(uploaded),
		Exclusive:    in.Exclusive,
	}
	if err := s.repo.Create(ctx, kit); err != nil {
		s.uploads.Discard(ctx, uploaded)
		return nil, err
	}
	return kit, nil
}

func (s *DetailKitService) Update(ctx context.Context, actor model.Actor, id uint64, p DetailKitPatch) (*model.DetailKit, error) {
	fields := map[string]any{}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, invalid("name cannot be empty")
		}
		fields["name"] = name
	}
	if p.Aircraft != nil {
		fields["aircraft"] = strings.TrimSpace(*p.Aircraft)
	}
	if p.Description != nil {
		fields["description"] = strings.TrimSpace(*p.Description)
	}
	if p.Tags != nil {
		fields["tags"] = datatypes.JSONSlice[string](normalizeTags(*p.Tags))
	}
	if p.DownloadLink != nil {
		link := strings.TrimSpace(*p.DownloadLink)
		if !validDownloadLink(link) {
			return nil, invalid("download link must be an http(s) URL")
		}
		fields["download_link"] = link
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
		return nil, notFound("detail kit", err)
	}
	return s.Get(ctx, id)
}
