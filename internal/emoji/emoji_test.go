package emoji

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"hellabot/internal/api"
	"hellabot/internal/api/apitest"
	"hellabot/pkg/jobmgr"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	mu       sync.Mutex
	existing []*discordgo.Emoji
	created  []string
	failOn   map[string]bool
	listErr  error
	release  chan struct{}
}

func (f *fakePlatform) ListEmojis(ctx context.Context) ([]*discordgo.Emoji, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]*discordgo.Emoji(nil), f.existing...), nil
}

func (f *fakePlatform) CreateEmoji(ctx context.Context, name, image string) (*discordgo.Emoji, error) {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, name)
	if f.failOn[name] {
		return nil, errors.New("Maximum number of emojis reached")
	}
	e := &discordgo.Emoji{ID: fmt.Sprintf("%d", len(f.created)), Name: name}
	f.existing = append(f.existing, e)
	return e, nil
}

func (f *fakePlatform) Created() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.created...)
}

type fakeImages struct {
	mu    sync.Mutex
	paths []string
}

func (f *fakeImages) DataURI(ctx context.Context, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
	return "data:image/png;base64,AAAA", nil
}

func TestCache_LoadAndLookup(t *testing.T) {
	p := &fakePlatform{existing: []*discordgo.Emoji{{ID: "42", Name: "char_002_amiya"}}}
	c := NewCache(p, &fakeImages{}, zerolog.Nop())

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, "<:char_002_amiya:42>", c.Operator("char_002_amiya"))
	c.Wait()
	assert.Empty(t, p.Created())
}

func TestCache_LoadError(t *testing.T) {
	c := NewCache(&fakePlatform{listErr: errors.New("401")}, &fakeImages{}, zerolog.Nop())
	assert.Error(t, c.Load(context.Background()))
	assert.Zero(t, c.Len())
}

func TestCache_ConcurrentMissesRegisterOnce(t *testing.T) {
	p := &fakePlatform{release: make(chan struct{})}
	images := &fakeImages{}
	c := NewCache(p, images, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "", c.Operator("char_003_kalts"))
		}()
	}
	wg.Wait()
	assert.True(t, c.InFlight("char_003_kalts"))

	close(p.release)
	c.Wait()

	assert.Equal(t, []string{"char_003_kalts"}, p.Created())
	assert.Equal(t, []string{"operator/avatars/char_003_kalts.png"}, images.paths)
	assert.False(t, c.InFlight("char_003_kalts"))
	assert.Equal(t, "<:char_003_kalts:1>", c.Operator("char_003_kalts"))
}

func TestCache_FailedRegistrationClearsFlag(t *testing.T) {
	p := &fakePlatform{failOn: map[string]bool{"MTL_SL_G2": true}}
	c := NewCache(p, &fakeImages{}, zerolog.Nop())

	assert.Equal(t, "", c.Item("MTL_SL_G2"))
	c.Wait()
	assert.False(t, c.InFlight("MTL_SL_G2"))

	// a later miss retries
	assert.Equal(t, "", c.Item("MTL_SL_G2"))
	c.Wait()
	assert.Equal(t, []string{"MTL_SL_G2", "MTL_SL_G2"}, p.Created())
}

func TestCache_BulkAndLazyRegistrationShareFlag(t *testing.T) {
	p := &fakePlatform{release: make(chan struct{})}
	c := NewCache(p, &fakeImages{}, zerolog.Nop())
	ctx := context.Background()

	assert.Equal(t, "", c.Operator("char_002_amiya"))
	require.True(t, c.InFlight("char_002_amiya"))

	// the lazy registration holds the name, so the bulk call returns at once
	require.NoError(t, c.Register(ctx, "char_002_amiya", OperatorAsset("char_002_amiya")))

	close(p.release)
	c.Wait()
	assert.Equal(t, []string{"char_002_amiya"}, p.Created())
	assert.False(t, c.InFlight("char_002_amiya"))
}

func TestCache_LazyLookupSkipsNameHeldByBulk(t *testing.T) {
	p := &fakePlatform{release: make(chan struct{})}
	c := NewCache(p, &fakeImages{}, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- c.Register(context.Background(), "char_002_amiya", OperatorAsset("char_002_amiya")) }()
	require.Eventually(t, func() bool { return c.InFlight("char_002_amiya") }, time.Second, 5*time.Millisecond)

	assert.Equal(t, "", c.Operator("char_002_amiya"))

	close(p.release)
	require.NoError(t, <-done)
	c.Wait()
	assert.Equal(t, []string{"char_002_amiya"}, p.Created())
	assert.False(t, c.InFlight("char_002_amiya"))
	assert.Equal(t, "<:char_002_amiya:1>", c.Operator("char_002_amiya"))
}

func TestOperatorName_AmiyaAlias(t *testing.T) {
	assert.Equal(t, "char_1037_amiya3_2", OperatorName("char_1037_amiya3"))
	assert.Equal(t, "char_002_amiya", OperatorName("char_002_amiya"))
}

func newSource() *apitest.Source {
	return apitest.New().
		SetAll(api.EntityOperator, []api.Document[api.Operator]{
			{ID: "char_002_amiya", Data: api.Operator{Name: "Amiya"}},
			{ID: "char_1037_amiya3", Data: api.Operator{Name: "Amiya (Medic)"}},
			{ID: "char_003_kalts", Data: api.Operator{Name: "Kal'tsit"}},
		}).
		SetSearch(api.EntityItem, []api.Document[api.Item]{
			{ID: "30012", Data: api.Item{ItemID: "30012", Name: "Orirock Cube", IconID: "MTL_SL_G2", SortID: 20}},
			{ID: "30011", Data: api.Item{ItemID: "30011", Name: "Orirock", IconID: "MTL_SL_G1", SortID: 10}},
			{ID: "token_x", Data: api.Item{ItemID: "token_x", Name: "Event Token", IconID: "token_x"}},
			{ID: "noicon", Data: api.Item{ItemID: "noicon", Name: "Nothing"}},
		}).
		AddSingle(api.EntityItem, api.Document[api.Item]{ID: "4001", Data: api.Item{ItemID: "4001", Name: "LMD", IconID: "GOLD"}}, "4001")
}

func TestWarmer_Targets(t *testing.T) {
	c := NewCache(&fakePlatform{}, &fakeImages{}, zerolog.Nop())
	w := NewWarmer(c, newSource(), jobmgr.NewManager(nil), zerolog.Nop())

	assert.Equal(t, []Target{
		{Name: "char_002_amiya", Path: "operator/avatars/char_002_amiya.png"},
		{Name: "char_1037_amiya3_2", Path: "operator/avatars/char_1037_amiya3_2.png"},
		{Name: "char_003_kalts", Path: "operator/avatars/char_003_kalts.png"},
		{Name: "MTL_SL_G1", Path: "items/MTL_SL_G1.png"},
		{Name: "MTL_SL_G2", Path: "items/MTL_SL_G2.png"},
		{Name: "GOLD", Path: "items/GOLD.png"},
	}, w.Targets(context.Background()))
}

func TestWarmer_RegistersMissingAndContinuesPastFailures(t *testing.T) {
	p := &fakePlatform{
		existing: []*discordgo.Emoji{{ID: "1", Name: "char_002_amiya"}},
		failOn:   map[string]bool{"char_003_kalts": true},
	}
	c := NewCache(p, &fakeImages{}, zerolog.Nop())
	w := NewWarmer(c, newSource(), jobmgr.NewManager(nil), zerolog.Nop())

	require.NoError(t, w.Warm(context.Background()))

	assert.ElementsMatch(t, []string{"char_1037_amiya3_2", "char_003_kalts", "MTL_SL_G1", "MTL_SL_G2", "GOLD"}, p.Created())
	_, ok := c.Get("GOLD")
	assert.True(t, ok)
	_, ok = c.Get("char_003_kalts")
	assert.False(t, ok)
}

func TestWarmer_PartialSourceFailureStillWarms(t *testing.T) {
	src := newSource()
	src.Err = errors.New("api down")
	p := &fakePlatform{}
	c := NewCache(p, &fakeImages{}, zerolog.Nop())
	w := NewWarmer(c, src, jobmgr.NewManager(nil), zerolog.Nop())

	require.NoError(t, w.Warm(context.Background()))
	assert.Empty(t, p.Created())
}

func TestWarmer_StartRefusesOverlap(t *testing.T) {
	p := &fakePlatform{release: make(chan struct{})}
	jobs := jobmgr.NewManager(nil)
	w := NewWarmer(NewCache(p, &fakeImages{}, zerolog.Nop()), newSource(), jobs, zerolog.Nop())

	require.NoError(t, w.Start(context.Background()))
	assert.ErrorIs(t, w.Start(context.Background()), jobmgr.ErrRunning)

	close(p.release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, jobs.Wait(ctx, JobName))
	assert.Empty(t, jobs.List())
}

func TestWarmer_ScheduleRejectsBadSpec(t *testing.T) {
	w := NewWarmer(NewCache(&fakePlatform{}, &fakeImages{}, zerolog.Nop()), newSource(), jobmgr.NewManager(nil), zerolog.Nop())
	c := cron.New()

	_, err := w.Schedule(context.Background(), c, "not a spec")
	assert.Error(t, err)

	_, err = w.Schedule(context.Background(), c, "@every 6h")
	assert.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
}

func TestAssets_DataURI(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/items/GOLD.png":
			_, _ = w.Write(png)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	a := NewAssets(srv.URL+"/", srv.Client())

	uri, err := a.DataURI(context.Background(), ItemAsset("GOLD"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"), uri)

	_, err = a.DataURI(context.Background(), ItemAsset("MISSING"))
	var aerr *AssetError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, http.StatusNotFound, aerr.Code)
}
