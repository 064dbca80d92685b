package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ListOptions selects one page. Zero values leave the server defaults in place.
type ListOptions struct {
	Page    int
	Limit   int
	Sort    string
	Order   string
	Filters map[string]string
	// Admin lists every status instead of only visible records.
	Admin bool
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Sort != "" {
		v.Set("sort", o.Sort)
	}
	if o.Order != "" {
		v.Set("order", o.Order)
	}
	for k, val := range o.Filters {
		v.Set(k, val)
	}
	return v
}

type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type Page[T any] struct {
	Items      []T      `json:"items"`
	Pagination PageMeta `json:"pagination"`
}

type Created struct {
	ID   uint   `json:"id"`
	Slug string `json:"slug"`
}

// Resource wraps the routes of one content resource.
type Resource[T any, I any] struct {
	client *Client
	path   string
}

func (r *Resource[T, I]) base(admin bool) string {
	if admin {
		return "/api/admin/" + r.path
	}
	return "/api/" + r.path
}

func (r *Resource[T, I]) item(id uint) string {
	return "/api/" + r.path + "/" + strconv.FormatUint(uint64(id), 10)
}

func (r *Resource[T, I]) List(ctx context.Context, opts ListOptions) (*Page[T], error) {
	var page Page[T]
	if err := r.client.do(ctx, http.MethodGet, r.base(opts.Admin), opts.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches a visible record by slug or id.
func (r *Resource[T, I]) Get(ctx context.Context, key string) (*T, error) {
	return r.get(ctx, r.base(false)+"/"+url.PathEscape(key))
}

// GetAdmin fetches a record in any status.
func (r *Resource[T, I]) GetAdmin(ctx context.Context, key string) (*T, error) {
	return r.get(ctx, r.base(true)+"/"+url.PathEscape(key))
}

func (r *Resource[T, I]) get(ctx context.Context, path string) (*T, error) {
	rec := new(T)
	if err := r.client.do(ctx, http.MethodGet, path, nil, nil, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *Resource[T, I]) Create(ctx context.Context, in *I) (*Created, error) {
	var out Created
	if err := r.client.do(ctx, http.MethodPost, r.base(false), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T, I]) Update(ctx context.Context, id uint, in *I) (*T, error) {
	rec := new(T)
	if err := r.client.do(ctx, http.MethodPut, r.item(id), nil, in, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *Resource[T, I]) Delete(ctx context.Context, id uint) error {
	return r.client.do(ctx, http.MethodDelete, r.item(id), nil, nil, nil)
}

func (r *Resource[T, I]) SetStatus(ctx context.Context, id uint, status string) (*T, error) {
	rec := new(T)
	body := map[string]string{"status": status}
	if err := r.client.do(ctx, http.MethodPatch, r.item(id)+"/status", nil, body, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Client) SubmitContact(ctx context.Context, in *ContactInput) error {
	return c.do(ctx, http.MethodPost, "/api/contact/submit", nil, in, nil)
}

// Apply submits an application to the job identified by slug or id and returns the application id.
func (c *Client) Apply(ctx context.Context, jobKey string, in *ApplicationInput) (uint, error) {
	var out struct {
		ID uint `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/jobs/"+url.PathEscape(jobKey)+"/apply", nil, in, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

type Session struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login opens an admin session and stores its token in the credential provider.
func (c *Client) Login(ctx context.Context, secret, code string) (*Session, error) {
	var session Session
	body := struct {
		Secret string `json:"secret"`
		Code   string `json:"code,omitempty"`
	}{secret, code}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &session); err != nil {
		return nil, err
	}
	c.credentials.Set(session.Token)
	return &session, nil
}

// Logout revokes the current session. The stored token is cleared even when the call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.credentials.Clear()
	if c.credentials.Get() == "" {
		return nil
	}
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}
