package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/templui/portfolio/internal/cache"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/realtime"
	"github.com/templui/portfolio/internal/validation"
)

// Collection is the data hook for one table: a cached list plus writes that
// check the session and validate before any request is made.
type Collection[T, In, Patch any] struct {
	c             *Client
	path          string
	table         string
	key           string
	label         string
	validate      func(*In) error
	validatePatch func(*Patch) error
}

// List returns every row, newest first. Concurrent callers share one request.
func (col *Collection[T, In, Patch]) List(ctx context.Context) ([]T, error) {
	return cache.Fetch(ctx, col.c.query, col.key, func(ctx context.Context) ([]T, error) {
		var rows []T
		_, err := col.c.do(ctx, http.MethodGet, col.path, nil, &rows)
		return rows, err
	})
}

func (col *Collection[T, In, Patch]) Create(ctx context.Context, in In) (T, error) {
	var row T
	if err := col.c.requireSession(); err != nil {
		return row, err
	}
	if err := col.validate(&in); err != nil {
		col.c.report(nil, err, "Failed to add "+col.label)
		return row, err
	}

	n, err := col.c.do(ctx, http.MethodPost, col.path, in, &row)
	col.c.query.Invalidate(ctx, col.key)
	col.c.report(n, err, "Failed to add "+col.label)
	return row, err
}

func (col *Collection[T, In, Patch]) Update(ctx context.Context, id string, patch Patch) (T, error) {
	var row T
	if err := col.c.requireSession(); err != nil {
		return row, err
	}
	if err := col.validatePatch(&patch); err != nil {
		col.c.report(nil, err, "Failed to update "+col.label)
		return row, err
	}

	n, err := col.c.do(ctx, http.MethodPatch, col.path+"/"+url.PathEscape(id), patch, &row)
	col.c.query.Invalidate(ctx, col.key)
	col.c.report(n, err, "Failed to update "+col.label)
	return row, err
}

func (col *Collection[T, In, Patch]) Delete(ctx context.Context, id string) error {
	if err := col.c.requireSession(); err != nil {
		return err
	}

	n, err := col.c.do(ctx, http.MethodDelete, col.path+"/"+url.PathEscape(id), nil, nil)
	col.c.query.Invalidate(ctx, col.key)
	col.c.report(n, err, "Failed to delete "+col.label)
	return err
}

type Projects struct {
	*Collection[*model.Project, model.ProjectInput, model.ProjectPatch]
}

func newProjects(c *Client) *Projects {
	return &Projects{&Collection[*model.Project, model.ProjectInput, model.ProjectPatch]{
		c:             c,
		path:          "/api/projects",
		table:         realtime.TableProjects,
		key:           cache.KeyProjects,
		label:         "project",
		validate:      validation.Project,
		validatePatch: validation.ProjectPatch,
	}}
}

// UploadImage stores a project image and returns its URL. Type and size are
// checked locally first.
// Watch streams the project list: once on start and again after every
// change. It blocks until ctx is done or the feed drops.
func (p *Projects) Watch(ctx context.Context, onChange func([]*model.Project)) error {
	return watchList(ctx, p.Collection, onChange)
}

func (p *Projects) UploadImage(ctx context.Context, up Upload) (string, error) {
	return p.c.uploadImage(ctx, "/api/projects/image", up)
}

type Certificates struct {
	*Collection[*model.Certificate, model.CertificateInput, model.CertificatePatch]
}

func newCertificates(c *Client) *Certificates {
	return &Certificates{&Collection[*model.Certificate, model.CertificateInput, model.CertificatePatch]{
		c:             c,
		path:          "/api/certificates",
		table:         realtime.TableCertificates,
		key:           cache.KeyCertificates,
		label:         "certificate",
		validate:      validation.Certificate,
		validatePatch: validation.CertificatePatch,
	}}
}

func (p *Certificates) Watch(ctx context.Context, onChange func([]*model.Certificate)) error {
	return watchList(ctx, p.Collection, onChange)
}

func (p *Certificates) UploadImage(ctx context.Context, up Upload) (string, error) {
	return p.c.uploadImage(ctx, "/api/certificates/image", up)
}

type Problems struct {
	*Collection[*model.DSAProblem, model.DSAProblemInput, model.DSAProblemPatch]
}

func newProblems(c *Client) *Problems {
	return &Problems{&Collection[*model.DSAProblem, model.DSAProblemInput, model.DSAProblemPatch]{
		c:             c,
		path:          "/api/dsa-problems",
		table:         realtime.TableDSAProblems,
		key:           cache.KeyDSAProblems,
		label:         "problem",
		validate:      validation.DSAProblem,
		validatePatch: validation.DSAProblemPatch,
	}}
}

func (p *Problems) Watch(ctx context.Context, onChange func([]*model.DSAProblem)) error {
	return watchList(ctx, p.Collection, onChange)
}
