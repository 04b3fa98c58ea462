package materialsrvc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/snbtku/backend/material/materialdomain"
	"github.com/snbtku/backend/snbt"
	"github.com/snbtku/backend/srvcerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPublicURL = "https://cdn.test/"

type memFiles struct {
	mu        sync.Mutex
	objects   map[string][]byte
	types     map[string]string
	deleteErr error
}

func newMemFiles() *memFiles {
	return &memFiles{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *memFiles) Upload(ctx context.Context, key, mediaType string, content []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = content
	f.types[key] = mediaType
	return testPublicURL + key, nil
}

func (f *memFiles) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *memFiles) ListFiles(ctx context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (f *memFiles) KeyFromURL(u string) (string, bool) {
	key, ok := strings.CutPrefix(u, testPublicURL)
	return key, ok && key != ""
}

type testEnv struct {
	srvc  *MaterialSrvc
	repo  *InMemMaterialRepo
	files *memFiles
	clock *time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := NewInMemMaterialRepo()
	files := newMemFiles()
	srvc := NewMaterialSrvc(repo, files)
	clock := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	env := &testEnv{srvc: srvc, repo: repo, files: files, clock: &clock}
	srvc.now = func() time.Time { return *env.clock }
	seq := 0
	srvc.newID = func() (string, error) {
		seq++
		return fmt.Sprintf("m-%03d", seq), nil
	}
	return env
}

func (e *testEnv) tick() {
	*e.clock = e.clock.Add(time.Minute)
}

func base(title string, subtest snbt.Subtest, body materialdomain.Body) materialdomain.Material {
	return materialdomain.Material{
		Title:       title,
		Subtest:     subtest,
		Topic:       "Umum",
		Description: "Materi " + title,
		Difficulty:  snbt.DifficultyEasy,
		Body:        body,
	}
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAddSummaryStartsAtZeroViews(t *testing.T) {
	env := newTestEnv(t)
	m, err := env.srvc.AddSummary(context.Background(),
		base("Ringkasan", snbt.SubtestLiterasi, materialdomain.Summary{Content: "isi", Views: 30, ReadTime: "5 menit"}))
	require.NoError(t, err)
	assert.Equal(t, "m-001", m.ID)
	assert.Zero(t, m.Views())
	assert.Equal(t, *env.clock, m.LastUpdated)

	_, err = env.srvc.AddSummary(context.Background(),
		base("Salah", snbt.SubtestLiterasi, materialdomain.Notes{}))
	assert.True(t, srvcerr.HasCode(err, ErrCodeWrongMaterialType))

	_, err = env.srvc.AddSummary(context.Background(),
		base("Kosong", snbt.SubtestLiterasi, materialdomain.Summary{}))
	assert.True(t, srvcerr.HasCode(err, ErrCodeInvalidMaterial))
}

func TestAddVideoResizesThumbnail(t *testing.T) {
	env := newTestEnv(t)
	m, err := env.srvc.AddVideo(context.Background(),
		base("Video", snbt.SubtestMatematika, materialdomain.Video{VideoURL: "https://youtu.be/x"}),
		pngImage(t, 1280, 720))
	require.NoError(t, err)

	video := m.Body.(materialdomain.Video)
	assert.Equal(t, testPublicURL+"thumbnails/m-001.jpg", video.Thumbnail)

	stored := env.files.objects["thumbnails/m-001.jpg"]
	require.NotEmpty(t, stored)
	assert.Equal(t, "image/jpeg", env.files.types["thumbnails/m-001.jpg"])
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, ThumbnailMaxWidth, cfg.Width)
	assert.Equal(t, 360, cfg.Height)

	small, err := env.srvc.AddVideo(context.Background(),
		base("Kecil", snbt.SubtestMatematika, materialdomain.Video{VideoURL: "https://youtu.be/y"}),
		pngImage(t, 320, 200))
	require.NoError(t, err)
	cfg, err = jpeg.DecodeConfig(bytes.NewReader(env.files.objects["thumbnails/"+small.ID+".jpg"]))
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width, "narrow images keep their size")

	_, err = env.srvc.AddVideo(context.Background(),
		base("Bukan gambar", snbt.SubtestMatematika, materialdomain.Video{VideoURL: "https://youtu.be/z"}),
		[]byte("%PDF-1.4 not an image"))
	assert.True(t, srvcerr.HasCode(err, ErrCodeInvalidFile))
}

func TestAddNotesSniffsFile(t *testing.T) {
	env := newTestEnv(t)
	content := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 2000)...)
	m, err := env.srvc.AddNotes(context.Background(),
		base("Rumus", snbt.SubtestMatematika, materialdomain.Notes{Downloads: 9}), "rumus cepat.pdf", content)
	require.NoError(t, err)

	notes := m.Body.(materialdomain.Notes)
	assert.Equal(t, "PDF", notes.FileType)
	assert.Equal(t, "2.0 kB", notes.FileSize)
	assert.Equal(t, testPublicURL+"notes/m-001/rumus_cepat.pdf", notes.FileURL)
	assert.Zero(t, notes.Downloads)
	assert.Equal(t, "application/pdf", env.files.types["notes/m-001/rumus_cepat.pdf"])

	_, err = env.srvc.AddNotes(context.Background(),
		base("Kosong", snbt.SubtestMatematika, materialdomain.Notes{}), "x.pdf", nil)
	assert.True(t, srvcerr.HasCode(err, ErrCodeInvalidFile))
}

func TestListMaterialsFiltersAndSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, m := range []materialdomain.Material{
		base("Teks Eksposisi", snbt.SubtestLiterasi, materialdomain.Summary{Content: "a"}),
		base("Barisan Aritmetika", snbt.SubtestMatematika, materialdomain.Summary{Content: "b"}),
		base("Video Barisan", snbt.SubtestMatematika, materialdomain.Video{VideoURL: "https://youtu.be/b"}),
	} {
		var err error
		if _, ok := m.Body.(materialdomain.Video); ok {
			_, err = env.srvc.AddVideo(ctx, m, nil)
		} else {
			_, err = env.srvc.AddSummary(ctx, m)
		}
		require.NoError(t, err)
		env.tick()
	}

	page, err := env.srvc.ListMaterials(ctx, materialdomain.Filter{Subtest: "Matematika", Type: "all"}, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Video Barisan", page.Items[0].Title)

	page, err = env.srvc.ListMaterials(ctx, materialdomain.Filter{Type: "summary", SearchQuery: "BARISAN"}, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Barisan Aritmetika", page.Items[0].Title)

	latest, err := env.srvc.ListLatest(ctx, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "Video Barisan", latest[0].Title)

	bySubtest, err := env.srvc.ListBySubtest(ctx, snbt.SubtestLiterasi)
	require.NoError(t, err)
	require.Len(t, bySubtest, 1)
}

func TestUpdateMaterialKeepsCounters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m, err := env.srvc.AddSummary(ctx, base("Awal", snbt.SubtestTPS, materialdomain.Summary{Content: "isi"}))
	require.NoError(t, err)
	require.NoError(t, env.srvc.IncrementViews(ctx, m.ID))
	require.NoError(t, env.srvc.IncrementViews(ctx, m.ID))

	env.tick()
	title := "Baru"
	updated, err := env.srvc.UpdateMaterial(ctx, m.ID, MaterialUpdate{
		Title: &title,
		Body:  materialdomain.Summary{Content: "isi baru"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Baru", updated.Title)
	assert.Equal(t, 2, updated.Views())
	assert.Equal(t, *env.clock, updated.LastUpdated)

	_, err = env.srvc.UpdateMaterial(ctx, m.ID, MaterialUpdate{Body: materialdomain.Notes{}})
	assert.True(t, srvcerr.HasCode(err, ErrCodeWrongMaterialType))

	_, err = env.srvc.UpdateMaterial(ctx, "missing", MaterialUpdate{Title: &title})
	assert.True(t, srvcerr.HasCode(err, ErrCodeMaterialNotFound))
}

func TestIncrementIgnoresMissingMaterial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	assert.NoError(t, env.srvc.IncrementViews(ctx, "gone"))
	assert.NoError(t, env.srvc.IncrementDownloads(ctx, "gone"))

	m, err := env.srvc.AddNotes(ctx, base("Catatan", snbt.SubtestTPS, materialdomain.Notes{}), "a.txt", []byte("hello"))
	require.NoError(t, err)
	require.NoError(t, env.srvc.IncrementDownloads(ctx, m.ID))

	stats, err := env.srvc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, materialdomain.Stats{TotalMaterials: 1, Downloads: 1}, *stats)
}

func TestDeleteMaterialRemovesFileBestEffort(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m, err := env.srvc.AddNotes(ctx, base("Hapus", snbt.SubtestTPS, materialdomain.Notes{}), "a.txt", []byte("hello"))
	require.NoError(t, err)
	require.Len(t, env.files.objects, 1)

	require.NoError(t, env.srvc.DeleteMaterial(ctx, m.ID))
	assert.Empty(t, env.files.objects)
	_, err = env.srvc.GetMaterial(ctx, m.ID)
	assert.True(t, srvcerr.HasCode(err, ErrCodeMaterialNotFound))

	other, err := env.srvc.AddNotes(ctx, base("Gagal", snbt.SubtestTPS, materialdomain.Notes{}), "b.txt", []byte("hello"))
	require.NoError(t, err)
	env.files.deleteErr = errors.New("storage down")
	require.NoError(t, env.srvc.DeleteMaterial(ctx, other.ID))
	_, err = env.srvc.GetMaterial(ctx, other.ID)
	assert.True(t, srvcerr.HasCode(err, ErrCodeMaterialNotFound))
}

func TestSweepOrphanFiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	kept, err := env.srvc.AddNotes(ctx, base("Tetap", snbt.SubtestTPS, materialdomain.Notes{}), "a.txt", []byte("a"))
	require.NoError(t, err)
	gone, err := env.srvc.AddNotes(ctx, base("Hilang", snbt.SubtestTPS, materialdomain.Notes{}), "b.txt", []byte("b"))
	require.NoError(t, err)

	env.files.deleteErr = errors.New("storage down")
	require.NoError(t, env.srvc.DeleteMaterial(ctx, gone.ID))
	env.files.deleteErr = nil

	orphans, err := env.srvc.SweepOrphanFiles(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes/" + gone.ID + "/b.txt"}, orphans)
	assert.Len(t, env.files.objects, 2)

	orphans, err = env.srvc.SweepOrphanFiles(ctx, false)
	require.NoError(t, err)
	assert.Len(t, orphans, 1)
	assert.Len(t, env.files.objects, 1)
	assert.Contains(t, env.files.objects, "notes/"+kept.ID+"/a.txt")
}

func TestPopularLeavesOutNotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, err := env.srvc.AddSummary(ctx, base("A", snbt.SubtestTPS, materialdomain.Summary{Content: "a"}))
	require.NoError(t, err)
	b, err := env.srvc.AddVideo(ctx, base("B", snbt.SubtestTPS, materialdomain.Video{VideoURL: "https://youtu.be/b"}), nil)
	require.NoError(t, err)
	_, err = env.srvc.AddNotes(ctx, base("C", snbt.SubtestTPS, materialdomain.Notes{}), "c.txt", []byte("c"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, env.srvc.IncrementViews(ctx, b.ID))
	}
	require.NoError(t, env.srvc.IncrementViews(ctx, a.ID))

	popular, err := env.srvc.ListPopular(ctx, 0)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, b.ID, popular[0].ID)
	assert.Equal(t, 3, popular[0].Views())
}

func TestBookmarks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, err := env.srvc.AddSummary(ctx, base("A", snbt.SubtestTPS, materialdomain.Summary{Content: "a"}))
	require.NoError(t, err)
	b, err := env.srvc.AddSummary(ctx, base("B", snbt.SubtestTPS, materialdomain.Summary{Content: "b"}))
	require.NoError(t, err)

	on, err := env.srvc.ToggleBookmark(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = env.srvc.ToggleBookmark(ctx, "u1", b.ID)
	require.NoError(t, err)
	assert.True(t, on)

	_, err = env.srvc.ToggleBookmark(ctx, "u1", "missing")
	assert.True(t, srvcerr.HasCode(err, ErrCodeMaterialNotFound))

	got, err := env.srvc.GetMaterialFor(ctx, a.ID, "u1")
	require.NoError(t, err)
	assert.True(t, got.IsBookmarked)

	require.NoError(t, env.repo.DeleteMaterial(ctx, b.ID))
	list, err := env.srvc.ListBookmarked(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1, "bookmarks of deleted materials are skipped")
	assert.True(t, list[0].IsBookmarked)

	off, err := env.srvc.ToggleBookmark(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.False(t, off)
	list, err = env.srvc.ListBookmarked(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
