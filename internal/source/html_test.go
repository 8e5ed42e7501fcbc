package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<!DOCTYPE html>
<html><body>
<h2><a href="/article/world/summit-agreement-reached-8812/">World leaders reach climate summit agreement</a></h2>
<h2><a href="/article/world/summit-agreement-reached-8812/">World leaders reach climate summit agreement</a></h2>
<h3><a href="/article/world/border-talks-resume-8813/">Border talks resume after six month pause</a></h3>
<h3><a href="/article/world/summit-deal-agreed-8814/">World leaders reach climate agreement</a></h3>
<h2><a href="/videos/world/daily-briefing-8815/">Watch the daily world news briefing video</a></h2>
<h4><a href="/article/world/markets-8816/">Too short</a></h4>
<div class="story-title"><a href="/article/world/rainfall-records-8817/">Rainfall records broken across three states</a></div>
<a href="/subscribe">Subscribe to our newsletter today please</a>
</body></html>`

func newTestSource(t *testing.T, page string) (*HTMLSource, string) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	return NewHTMLSource(srv.URL+"/section/%s/", u.Host, "test-agent", 5*time.Second), u.Host
}

func TestHTMLSourceFetchListing(t *testing.T) {
	src, host := newTestSource(t, listingPage)

	stubs := src.FetchListing(context.Background(), "world", 10)

	require.Len(t, stubs, 3)

	assert.Equal(t, "World leaders reach climate summit agreement", stubs[0].Title)
	assert.Equal(t, "https://"+host+"/article/world/summit-agreement-reached-8812/", stubs[0].URL)
	assert.Equal(t, "world", stubs[0].Category)

	// Same url twice collapses; "World leaders reach climate agreement" is a
	// near duplicate of the first headline; video and subscribe links and the
	// short title are all filtered.
	assert.Equal(t, "Border talks resume after six month pause", stubs[1].Title)
	assert.Equal(t, "Rainfall records broken across three states", stubs[2].Title)
}

func TestHTMLSourceHonorsLimit(t *testing.T) {
	src, _ := newTestSource(t, listingPage)

	stubs := src.FetchListing(context.Background(), "world", 1)
	assert.Len(t, stubs, 1)
}

func TestHTMLSourceSoftFailsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	src := NewHTMLSource(srv.URL+"/section/%s/", u.Host, "test-agent", 5*time.Second)
	assert.Empty(t, src.FetchListing(context.Background(), "world", 10))
}

func TestHTMLSourceSoftFailsOnUnreachableHost(t *testing.T) {
	src := NewHTMLSource("http://127.0.0.1:1/section/%s/", "127.0.0.1:1", "test-agent", time.Second)
	assert.Empty(t, src.FetchListing(context.Background(), "world", 10))
}
