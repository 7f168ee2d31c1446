package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/templui/portfolio/internal/cache"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/realtime"
	"github.com/templui/portfolio/internal/validation"
)

// ErrNoProfileOwner is returned by Watch when nobody is signed in and the
// server has no site owner configured.
var ErrNoProfileOwner = errors.New("no profile owner to watch")

// ProfileHook reads and writes the profile of the signed-in identity, or of
// the default owner while signed out.
type ProfileHook struct {
	c *Client

	mu    sync.Mutex
	owner string
}

// target is the user whose profile is shown. Signed out without a default
// owner, it asks the server once for its site owner. Empty means the server
// has none.
func (p *ProfileHook) target(ctx context.Context) (string, error) {
	if u := p.c.Session.User(); u != nil {
		return u.ID, nil
	}
	if p.c.defaultOwner != "" {
		return p.c.defaultOwner, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.owner != "" {
		return p.owner, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.c.url("/api/profile"), nil)
	if err != nil {
		return "", err
	}
	env, err := p.c.roundTrip(req)
	if err != nil {
		return "", err
	}
	p.owner = env.OwnerID
	return p.owner, nil
}

// Fetch returns nil without error when the profile was never saved or there
// is nobody to show.
func (p *ProfileHook) Fetch(ctx context.Context) (*model.Profile, error) {
	target, err := p.target(ctx)
	if err != nil || target == "" {
		return nil, err
	}
	return p.fetch(ctx, target)
}

func (p *ProfileHook) fetch(ctx context.Context, target string) (*model.Profile, error) {
	return cache.Fetch(ctx, p.c.query, cache.KeyProfile(target), func(ctx context.Context) (*model.Profile, error) {
		var profile *model.Profile
		_, err := p.c.do(ctx, http.MethodGet, "/api/profile?user_id="+url.QueryEscape(target), nil, &profile)
		return profile, err
	})
}

func (p *ProfileHook) Update(ctx context.Context, patch model.ProfilePatch) (*model.Profile, error) {
	if err := p.c.requireSession(); err != nil {
		return nil, err
	}
	if err := validation.Profile(&patch); err != nil {
		p.c.report(nil, err, "Failed to update profile")
		return nil, err
	}

	var profile model.Profile
	n, err := p.c.do(ctx, http.MethodPut, "/api/profile", patch, &profile)
	if u := p.c.Session.User(); u != nil {
		p.c.query.Invalidate(ctx, cache.KeyProfile(u.ID))
	}
	p.c.report(n, err, "Failed to update profile")
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *ProfileHook) UploadAvatar(ctx context.Context, up Upload) (*model.Profile, error) {
	var profile model.Profile
	n, err := p.c.upload(ctx, "/api/profile/avatar", up, &profile)
	if u := p.c.Session.User(); u != nil {
		p.c.query.Invalidate(ctx, cache.KeyProfile(u.ID))
	}
	p.c.report(n, err, "Failed to upload avatar")
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Watch calls onChange with the current profile and again after every change
// pushed by the server. The feed is always limited to one owner. It blocks
// until ctx is done or the connection drops.
func (p *ProfileHook) Watch(ctx context.Context, onChange func(*model.Profile)) error {
	target, err := p.target(ctx)
	if err != nil {
		return err
	}
	if target == "" {
		return ErrNoProfileOwner
	}

	conn, closeConn, err := p.c.subscribe(ctx, realtime.TableProfiles, target)
	if err != nil {
		return err
	}
	defer closeConn()

	current, err := p.fetch(ctx, target)
	if err != nil {
		return err
	}
	onChange(current)

	return readEvents(ctx, conn, realtime.TableProfiles, func(e realtime.Event) {
		next, err := realtime.ReduceProfile(current, e)
		if err != nil {
			slog.Warn("skipping profile event", "error", err)
			return
		}
		current = next
		p.c.query.Invalidate(ctx, cache.KeyProfile(target))
		onChange(current)
	})
}
