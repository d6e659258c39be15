// Copyright 2022 Ian Parberry
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
	"net/http"
	"time"

	curvedline "github.com/Ian-Parberry/findthecurvedlinememe"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout is the time running requests get to finish after the
// server was asked to stop.
var ShutdownTimeout = 5 * time.Second

// OpenStorage returns redis storage if cfg names a redis server and memory
// storage otherwise.
func OpenStorage(ctx context.Context, cfg curvedline.ServerConfig) (ConnectionStorage, error) {
	if cfg.RedisAddr == "" {
		return NewMemStorage(), nil
	}
	return DialRedis(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.SessionTTL.Duration)
}

// janitorInterval returns how often expired sessions are removed.
func janitorInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

// Run serves the backend on cfg.Addr until ctx is done. Expired sessions are
// removed in the background.
func Run(ctx context.Context, cfg curvedline.ServerConfig, handlerContext *Context) error {
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(handlerContext),
		ReadHeaderTimeout: 10 * time.Second,
	}
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.WithField("addr", cfg.Addr).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		log.Info("Stopping server")
		return server.Shutdown(shutdownCtx)
	})
	if ttl := cfg.SessionTTL.Duration; ttl > 0 {
		group.Go(func() error {
			return RunJanitor(groupCtx, handlerContext.Storage, janitorInterval(ttl), ttl)
		})
	}
	return group.Wait()
}
