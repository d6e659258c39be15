// Copyright 2018 Fabian Wenzelmann
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package web

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"time"

	curvedline "github.com/Ian-Parberry/findthecurvedlinememe"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ConnectionID identifies a session.
type ConnectionID uuid.UUID

// GenConnectionID returns a new random id.
func GenConnectionID() (ConnectionID, error) {
	id, idErr := uuid.NewRandom()
	return ConnectionID(id), idErr
}

// ParseConnectionID parses the string form of an id.
func ParseConnectionID(s string) (ConnectionID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ConnectionID{}, curvedline.WrapError(curvedline.ErrCodeInvalidInput, err, "invalid session id %q", s)
	}
	return ConnectionID(id), nil
}

func (id ConnectionID) String() string {
	return uuid.UUID(id).String()
}

// State is everything a session remembers. The mosaic itself is not stored,
// it is drawn again from Cells when requested. RNG is the state of the
// session's random source after the last random layout, so the next random
// layout continues the sequence of Seed.
type State struct {
	Created        time.Time          `json:"created"`
	LastConnection time.Time          `json:"last_connection"`
	Layout         curvedline.Layout  `json:"layout"`
	Cells          curvedline.Pattern `json:"cells"`
	Seed           uint64             `json:"seed"`
	RNG            []byte             `json:"rng"`
	JPGQuality     int                `json:"jpeg_quality"`
	InterP         string             `json:"interp"`
	Upscale        bool               `json:"upscale"`
}

// NewState returns a session showing the original layout whose random
// layouts are drawn from seed.
func NewState(seed uint64) (*State, error) {
	now := time.Now().UTC()
	s := &State{
		Created:        now,
		LastConnection: now,
		Layout:         curvedline.LayoutOriginal,
		Cells:          curvedline.OriginalPattern,
		JPGQuality:     curvedline.DefaultEncodeOptions.JPGQuality,
		InterP:         curvedline.InterPString(curvedline.GetInterP(3)),
	}
	if err := s.Reseed(seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Reseed restarts the random sequence of the session. The current layout is
// not changed.
func (s *State) Reseed(seed uint64) error {
	rng, err := curvedline.NewRandomSource(seed).State()
	if err != nil {
		return err
	}
	s.Seed = seed
	s.RNG = rng
	return nil
}

// SelectLayout chooses a new layout. For the random layout the next 64 values
// of the session's sequence are drawn. On error the state is unchanged.
func (s *State) SelectLayout(layout curvedline.Layout) error {
	switch layout {
	case curvedline.LayoutOriginal:
		s.Cells = curvedline.OriginalPattern
		s.Layout = layout
		return nil
	case curvedline.LayoutRandom:
		src := curvedline.NewRandomSource(s.Seed)
		if err := src.Restore(s.RNG); err != nil {
			return err
		}
		cells, err := curvedline.DrawPattern(curvedline.NewRandomStrategy(src))
		if err != nil {
			return err
		}
		rng, err := src.State()
		if err != nil {
			return err
		}
		s.Cells, s.RNG, s.Layout = cells, rng, layout
		return nil
	default:
		return curvedline.NewError(curvedline.ErrCodeInvalidInput, "layout %s can't be selected", layout)
	}
}

// Mosaic draws the mosaic of the session.
func (s *State) Mosaic(variants curvedline.VariantSet, background color.Color) (*image.NRGBA, error) {
	if err := s.Cells.Validate(); err != nil {
		return nil, err
	}
	return curvedline.Render(variants, s.Cells, background), nil
}

// Resizer returns the resizer for previews of the session.
func (s *State) Resizer() curvedline.ImageResizer {
	interP, err := curvedline.InterPFromString(s.InterP)
	if err != nil {
		return curvedline.DefaultResizer
	}
	return curvedline.NewNfntResizer(interP)
}

// Touch marks the session as used at now.
func (s *State) Touch(now time.Time) {
	s.LastConnection = now
}

// Expired returns true if the session was not used for maxAge.
func (s *State) Expired(now time.Time, maxAge time.Duration) bool {
	age := now.Sub(s.LastConnection)
	return age >= maxAge
}

func (s *State) clone() *State {
	res := *s
	res.RNG = append([]byte(nil), s.RNG...)
	return &res
}

var (
	ErrConnNotFound = curvedline.NewError(curvedline.ErrCodeNotFound, "Connection not found")
)

// ConnectionStorage stores the sessions. Get returns a copy, changes must be
// written back with Set.
type ConnectionStorage interface {
	Get(ctx context.Context, conn ConnectionID) (*State, error)
	Set(ctx context.Context, conn ConnectionID, state *State) error
	Delete(ctx context.Context, conn ConnectionID) error
	// Filter removes all sessions that were not used for maxAge.
	Filter(ctx context.Context, maxAge time.Duration) error
}

// MemStorage keeps the sessions in memory.
type MemStorage struct {
	mutex   *sync.RWMutex
	connMap map[ConnectionID]*State
}

func NewMemStorage() *MemStorage {
	m := new(sync.RWMutex)
	connMap := make(map[ConnectionID]*State, 1000)
	return &MemStorage{
		mutex:   m,
		connMap: connMap,
	}
}

func (s *MemStorage) Get(ctx context.Context, conn ConnectionID) (*State, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	state, has := s.connMap[conn]
	if has {
		return state.clone(), nil
	}
	return nil, ErrConnNotFound
}

func (s *MemStorage) Set(ctx context.Context, conn ConnectionID, state *State) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.connMap[conn] = state.clone()
	return nil
}

func (s *MemStorage) Delete(ctx context.Context, conn ConnectionID) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.connMap, conn)
	return nil
}

func (s *MemStorage) Filter(ctx context.Context, maxAge time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	now := time.Now().UTC()
	for id, state := range s.connMap {
		if state.Expired(now, maxAge) {
			delete(s.connMap, id)
		}
	}
	return nil
}

// Len returns the number of sessions.
func (s *MemStorage) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.connMap)
}

// RunJanitor calls Filter on storage every interval until ctx is done.
func RunJanitor(ctx context.Context, storage ConnectionStorage, interval, maxAge time.Duration) error {
	if interval <= 0 {
		return errors.New("janitor interval must be positive")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := storage.Filter(ctx, maxAge); err != nil {
				log.WithError(err).Warn("Can't remove expired sessions")
			}
		}
	}
}
