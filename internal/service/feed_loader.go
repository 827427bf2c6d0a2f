package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/repository"
	"github.com/Ali5829511/wwwr/internal/store"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Keys holding the last successfully fetched feed sections.
const (
	KeyStickersReal   = "stickers_real"
	KeyBuildingsReal  = "buildings_real"
	KeyResidentsReal  = "residents_real"
	KeyUnitsReal      = "residential_units_real"
	KeyParkingReal    = "parking_real"
	KeyStatisticsReal = "statistics_real"
)

// RealData the external real_data.json document.
// Buildings, parking and statistics are kept verbatim.
type RealData struct {
	Stickers   []domain.Sticker         `json:"stickers"`
	Buildings  json.RawMessage          `json:"buildings,omitempty"`
	Residents  []domain.Resident        `json:"residents"`
	Units      []domain.ResidentialUnit `json:"units"`
	Parking    json.RawMessage          `json:"parking,omitempty"`
	Statistics json.RawMessage          `json:"statistics,omitempty"`
}

const (
	FeedSourceRemote = "remote"
	FeedSourceLocal  = "local"
)

type FeedResult struct {
	Source string    `json:"source"`
	Data   *RealData `json:"data"`
}

// FeedLoader fetches the external data feed and keeps a local copy of it.
type FeedLoader struct {
	client      *resty.Client
	url         string
	collections *store.Collections
	logger      *zap.Logger
}

func NewFeedLoader(url string, timeout time.Duration, collections *store.Collections, logger *zap.Logger) *FeedLoader {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Accept", "application/json")
	return &FeedLoader{client: client, url: url, collections: collections, logger: logger}
}

// Load fetches the feed and persists every section. When the feed is not configured
// or the fetch fails, the previously persisted sections are returned instead.
func (l *FeedLoader) Load(ctx context.Context) (*FeedResult, error) {
	if l.url != "" {
		data, err := l.fetch(ctx)
		if err == nil {
			if err := l.persist(ctx, data); err != nil {
				return nil, storageError("persist feed", err)
			}
			l.logger.Info("Data feed loaded",
				zap.String("url", l.url),
				zap.Int("stickers", len(data.Stickers)),
				zap.Int("residents", len(data.Residents)),
				zap.Int("units", len(data.Units)),
			)
			return &FeedResult{Source: FeedSourceRemote, Data: data}, nil
		}
		l.logger.Warn("Data feed fetch failed, falling back to local copy", zap.String("url", l.url), zap.Error(err))
	}

	data, err := l.local(ctx)
	if err != nil {
		return nil, storageError("load local feed copy", err)
	}
	return &FeedResult{Source: FeedSourceLocal, Data: data}, nil
}

// Residents from the last persisted feed.
func (l *FeedLoader) Residents(ctx context.Context) ([]domain.Resident, error) {
	var residents []domain.Resident
	if _, err := l.collections.Load(ctx, KeyResidentsReal, &residents); err != nil {
		return nil, err
	}
	return residents, nil
}

// SeedCollections copies feed stickers and units into the working collections that are still empty.
func (l *FeedLoader) SeedCollections(ctx context.Context, data *RealData) (stickers, units int, err error) {
	if data == nil {
		return 0, 0, nil
	}
	if stickers, err = seedIfEmpty(ctx, repository.NewStickersCollection(l.collections), data.Stickers); err != nil {
		return 0, 0, storageError("seed stickers", err)
	}
	if units, err = seedIfEmpty(ctx, repository.NewUnitsCollection(l.collections), data.Units); err != nil {
		return stickers, 0, storageError("seed units", err)
	}
	return stickers, units, nil
}

func (l *FeedLoader) fetch(ctx context.Context) (*RealData, error) {
	var data RealData
	resp, err := l.client.R().
		SetContext(ctx).
		SetResult(&data).
		Get(l.url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("feed returned HTTP %d", resp.StatusCode())
	}
	return &data, nil
}

func (l *FeedLoader) persist(ctx context.Context, data *RealData) error {
	sections := []struct {
		key   string
		value any
		empty bool
	}{
		{KeyStickersReal, data.Stickers, data.Stickers == nil},
		{KeyBuildingsReal, data.Buildings, len(data.Buildings) == 0},
		{KeyResidentsReal, data.Residents, data.Residents == nil},
		{KeyUnitsReal, data.Units, data.Units == nil},
		{KeyParkingReal, data.Parking, len(data.Parking) == 0},
		{KeyStatisticsReal, data.Statistics, len(data.Statistics) == 0},
	}
	for _, s := range sections {
		if s.empty {
			continue
		}
		if err := l.collections.Replace(ctx, s.key, s.value); err != nil {
			return err
		}
	}
	return nil
}

func (l *FeedLoader) local(ctx context.Context) (*RealData, error) {
	data := &RealData{}
	targets := []struct {
		key string
		out any
	}{
		{KeyStickersReal, &data.Stickers},
		{KeyBuildingsReal, &data.Buildings},
		{KeyResidentsReal, &data.Residents},
		{KeyUnitsReal, &data.Units},
		{KeyParkingReal, &data.Parking},
		{KeyStatisticsReal, &data.Statistics},
	}
	for _, t := range targets {
		if _, err := l.collections.Load(ctx, t.key, t.out); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func seedIfEmpty[T any](ctx context.Context, c *repository.Collection[T], items []T) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	current, rev, err := c.Load(ctx)
	if err != nil {
		return 0, err
	}
	if len(current) > 0 {
		return 0, nil
	}
	if _, err := c.Save(ctx, items, rev); err != nil {
		return 0, err
	}
	return len(items), nil
}
