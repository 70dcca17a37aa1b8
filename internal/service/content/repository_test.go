package content

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = core.DefaultStorageKey

// faultyKV fails reads and/or writes on demand and counts writes.
type faultyKV struct {
	mu      sync.Mutex
	inner   *memory.KVStore
	readErr error
	setErr  error
	sets    int
}

func newFaultyKV() *faultyKV {
	return &faultyKV{inner: memory.NewKVStore()}
}

func (f *faultyKV) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	err := f.readErr
	f.mu.Unlock()
	if err != nil {
		return "", false, err
	}
	return f.inner.Get(ctx, key)
}

func (f *faultyKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	f.sets++
	err := f.setErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.inner.Set(ctx, key, value)
}

func sampleRecord(id int64) core.ContentRecord {
	return core.ContentRecord{
		ID:        id,
		Type:      core.ContentUserGenerated,
		Location:  core.Coordinates{Latitude: 37.7749, Longitude: -122.4194},
		CreatedAt: time.UnixMilli(id).UTC(),
		Payload: core.ContentPayload{
			Text:   "Jetstreamin was here!",
			Color:  "#00ff88",
			Author: "anonymous",
		},
	}
}

func TestRepository_AppendThenLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()

	rec := sampleRecord(1718000000000)
	require.NoError(t, NewRepository(kv, testKey).Append(ctx, rec))

	loaded := NewRepository(kv, testKey).Load(ctx)
	require.Len(t, loaded, 1)
	assert.Equal(t, rec, loaded[0])
	assert.True(t, loaded[0].CreatedAt.Equal(rec.CreatedAt))
}

func TestRepository_Load(t *testing.T) {
	tests := []struct {
		name   string
		stored *string
		want   int
	}{
		{name: "absent", stored: nil, want: 0},
		{name: "empty_string", stored: ptr(""), want: 0},
		{name: "empty_array", stored: ptr("[]"), want: 0},
		{name: "malformed_json", stored: ptr("[{"), want: 0},
		{name: "json_null", stored: ptr("null"), want: 0},
		{name: "object_instead_of_array", stored: ptr(`{"id":1}`), want: 0},
		{name: "missing_location", stored: ptr(`[{"id":1,"type":"user-generated","timestamp":"2024-06-10T06:13:20.000Z","data":{}}]`), want: 0},
		{name: "latitude_out_of_range", stored: ptr(`[{"id":1,"type":"user-generated","location":{"lat":120,"lng":0},"timestamp":"2024-06-10T06:13:20.000Z","data":{}}]`), want: 0},
		{
			name: "browser_export",
			stored: ptr(`[{"id":1718000000000,"type":"user-generated",` +
				`"location":{"lat":37.7749,"lng":-122.4194,"accuracy":12},` +
				`"timestamp":"2024-06-10T06:13:20.000Z",` +
				`"data":{"text":"Jetstreamin was here!","color":"#00ff88","author":"anonymous"}}]`),
			want: 1,
		},
		{
			name: "duplicate_ids_collapsed",
			stored: ptr(`[` +
				`{"id":5,"type":"user-generated","location":{"lat":1,"lng":1},"timestamp":"2024-06-10T06:13:20Z","data":{}},` +
				`{"id":5,"type":"user-generated","location":{"lat":2,"lng":2},"timestamp":"2024-06-10T06:13:21Z","data":{}}]`),
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := memory.NewKVStore()
			if tt.stored != nil {
				require.NoError(t, kv.Set(ctx, testKey, *tt.stored))
			}

			repo := NewRepository(kv, testKey)
			got := repo.Load(ctx)

			assert.NotNil(t, got)
			assert.Len(t, got, tt.want)
			assert.False(t, repo.Degraded())
		})
	}
}

func TestRepository_Load_BrowserExportFields(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	raw := `[{"id":1718000000000,"type":"user-generated","location":{"lat":37.7749,"lng":-122.4194},` +
		`"timestamp":"2024-06-10T06:13:20.000Z","data":{"text":"hi","color":"#ff0000","author":"ana"}}]`
	require.NoError(t, kv.Set(ctx, testKey, raw))

	got := NewRepository(kv, testKey).Load(ctx)
	require.Len(t, got, 1)

	rec := got[0]
	assert.Equal(t, int64(1718000000000), rec.ID)
	assert.Equal(t, core.ContentUserGenerated, rec.Type)
	assert.Equal(t, 37.7749, rec.Location.Latitude)
	assert.Equal(t, -122.4194, rec.Location.Longitude)
	assert.Equal(t, core.ContentPayload{Text: "hi", Color: "#ff0000", Author: "ana"}, rec.Payload)
	assert.True(t, rec.CreatedAt.Equal(time.Date(2024, 6, 10, 6, 13, 20, 0, time.UTC)))
}

func TestRepository_Load_ReadFailureDegrades(t *testing.T) {
	ctx := context.Background()
	kv := newFaultyKV()
	require.NoError(t, kv.inner.Set(ctx, testKey, "[]"))
	kv.readErr = errors.New("disk on fire")

	repo := NewRepository(kv, testKey)
	var reported []error
	repo.OnPersistError(func(ctx context.Context, err error) {
		reported = append(reported, err)
	})

	assert.Empty(t, repo.Load(ctx))
	assert.True(t, repo.Degraded())
	require.Len(t, reported, 1)

	// Unreadable data must not be overwritten
	require.NoError(t, repo.Append(ctx, sampleRecord(1)))
	assert.Equal(t, 0, kv.sets)
	assert.Len(t, repo.All(), 1)
}

func TestRepository_Append_WriteFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	kv := newFaultyKV()
	kv.setErr = errors.New("quota exceeded")

	repo := NewRepository(kv, testKey)
	var reported []error
	repo.OnPersistError(func(ctx context.Context, err error) {
		reported = append(reported, err)
	})

	require.NoError(t, repo.Append(ctx, sampleRecord(1)))
	require.NoError(t, repo.Append(ctx, sampleRecord(2)))

	assert.True(t, repo.Degraded())
	assert.Equal(t, 1, kv.sets, "writes stop after the first failure")
	assert.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], kv.setErr)
	assert.Len(t, repo.All(), 2)
}

func TestRepository_Append_DuplicateID(t *testing.T) {
	ctx := context.Background()
	kv := newFaultyKV()
	repo := NewRepository(kv, testKey)

	require.NoError(t, repo.Append(ctx, sampleRecord(7)))
	err := repo.Append(ctx, sampleRecord(7))

	assert.ErrorIs(t, err, core.ErrDuplicateID)
	assert.Len(t, repo.All(), 1)
	assert.Equal(t, 1, kv.sets)
}

func TestRepository_AppendVisibleImmediately(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(memory.NewKVStore(), testKey)
	repo.Load(ctx)

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, repo.Append(ctx, sampleRecord(i)))
		all := repo.All()
		require.Len(t, all, int(i))
		assert.Equal(t, i, all[len(all)-1].ID)
	}
}

func TestRepository_All_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(memory.NewKVStore(), testKey)
	require.NoError(t, repo.Append(ctx, sampleRecord(1)))

	all := repo.All()
	all[0].Payload.Text = "mutated"

	assert.Equal(t, "Jetstreamin was here!", repo.All()[0].Payload.Text)
}

func TestRepository_NextID(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(memory.NewKVStore(), testKey)
	now := time.UnixMilli(1000)

	assert.Equal(t, int64(1000), repo.NextID(now))

	require.NoError(t, repo.Append(ctx, sampleRecord(1000)))
	assert.Equal(t, int64(1001), repo.NextID(now), "same millisecond is bumped")

	require.NoError(t, repo.Append(ctx, sampleRecord(5000)))
	assert.Equal(t, int64(5001), repo.NextID(now), "clock behind last id is bumped")
	assert.Equal(t, int64(9000), repo.NextID(time.UnixMilli(9000)))
}

func TestValidateCollection(t *testing.T) {
	assert.NoError(t, validateCollection(`[]`))
	assert.Error(t, validateCollection(`"text"`))
	assert.Error(t, validateCollection(`[{"id":"abc"}]`))
}

func ptr(s string) *string { return &s }
