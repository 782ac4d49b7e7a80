package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/venikman/acp-sentinel/sentinel/findinglog"
)

type fakeCollection struct {
	docs      []recordDocument
	insertErr error
	findErr   error
	indexed   bool
}

func (c *fakeCollection) InsertOne(_ context.Context, document any, _ ...options.Lister[options.InsertOneOptions]) (*mongodriver.InsertOneResult, error) {
	if c.insertErr != nil {
		return nil, c.insertErr
	}
	doc := document.(recordDocument)
	doc.ID = bson.NewObjectID()
	c.docs = append(c.docs, doc)
	return &mongodriver.InsertOneResult{InsertedID: doc.ID}, nil
}

func (c *fakeCollection) Find(_ context.Context, filter any, _ ...options.Lister[options.FindOptions]) (cursor, error) {
	if c.findErr != nil {
		return nil, c.findErr
	}
	f := filter.(bson.M)
	runID := f["run_id"].(string)
	var after bson.ObjectID
	if idFilter, ok := f["_id"].(bson.M); ok {
		after = idFilter["$gt"].(bson.ObjectID)
	}
	var matched []recordDocument
	for _, doc := range c.docs {
		if doc.RunID != runID {
			continue
		}
		if !after.IsZero() && doc.ID.Hex() <= after.Hex() {
			continue
		}
		matched = append(matched, doc)
	}
	return &fakeCursor{docs: matched}, nil
}

func (c *fakeCollection) Indexes() indexView { return fakeIndexView{coll: c} }

type fakeIndexView struct {
	coll *fakeCollection
}

func (v fakeIndexView) CreateOne(context.Context, mongodriver.IndexModel, ...options.Lister[options.CreateIndexesOptions]) (string, error) {
	v.coll.indexed = true
	return "run_id_1__id_1", nil
}

type fakeCursor struct {
	docs []recordDocument
	pos  int
}

func (c *fakeCursor) Next(context.Context) bool {
	if c.pos >= len(c.docs) {
		return false
	}
	c.pos++
	return true
}

func (c *fakeCursor) Decode(val any) error {
	*(val.(*recordDocument)) = c.docs[c.pos-1]
	return nil
}

func (c *fakeCursor) Err() error                  { return nil }
func (c *fakeCursor) Close(context.Context) error { return nil }

func newTestClient(t *testing.T, coll *fakeCollection) Client {
	t.Helper()
	c, err := newClientWithCollection(nil, coll, time.Second)
	require.NoError(t, err)
	return c
}

func testRecord(runID string) *findinglog.Record {
	return &findinglog.Record{
		RunID:     runID,
		SessionID: "s1",
		Kind:      findinglog.KindFinding,
		Lane:      "session",
		Failure:   "CANCEL_MISMATCH",
		Payload:   []byte(`{}`),
		Timestamp: time.Now().UTC(),
	}
}

func TestAppendAssignsObjectID(t *testing.T) {
	coll := &fakeCollection{}
	client := newTestClient(t, coll)

	r := testRecord("run-1")
	require.NoError(t, client.Append(context.Background(), r))
	assert.NotEmpty(t, r.ID)
	require.Len(t, coll.docs, 1)
	assert.Equal(t, "run-1", coll.docs[0].RunID)
	assert.Equal(t, "CANCEL_MISMATCH", coll.docs[0].Failure)
}

func TestAppendValidation(t *testing.T) {
	client := newTestClient(t, &fakeCollection{})
	ctx := context.Background()

	assert.Error(t, client.Append(ctx, nil))
	assert.Error(t, client.Append(ctx, &findinglog.Record{Kind: "finding", Timestamp: time.Now()}))
	assert.Error(t, client.Append(ctx, &findinglog.Record{RunID: "r", Timestamp: time.Now()}))
	assert.Error(t, client.Append(ctx, &findinglog.Record{RunID: "r", Kind: "finding"}))
}

func TestAppendSurfacesDriverErrors(t *testing.T) {
	client := newTestClient(t, &fakeCollection{insertErr: errors.New("write concern")})
	err := client.Append(context.Background(), testRecord("run-1"))
	require.Error(t, err)
}

func TestListPaginatesWithObjectIDCursor(t *testing.T) {
	coll := &fakeCollection{}
	client := newTestClient(t, coll)
	ctx := context.Background()

	for range 5 {
		require.NoError(t, client.Append(ctx, testRecord("run-2")))
	}
	require.NoError(t, client.Append(ctx, testRecord("run-other")))

	page1, err := client.List(ctx, "run-2", "", 2)
	require.NoError(t, err)
	require.Len(t, page1.Records, 2)
	require.NotEmpty(t, page1.NextCursor)

	page2, err := client.List(ctx, "run-2", page1.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, page2.Records, 2)

	page3, err := client.List(ctx, "run-2", page2.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, page3.Records, 1)
	assert.Empty(t, page3.NextCursor)

	seen := map[string]bool{}
	for _, page := range []findinglog.Page{page1, page2, page3} {
		for _, r := range page.Records {
			assert.Equal(t, "run-2", r.RunID)
			assert.False(t, seen[r.ID])
			seen[r.ID] = true
		}
	}
	assert.Len(t, seen, 5)
}

func TestListValidation(t *testing.T) {
	client := newTestClient(t, &fakeCollection{})
	ctx := context.Background()

	_, err := client.List(ctx, "", "", 1)
	assert.Error(t, err)
	_, err = client.List(ctx, "run", "", 0)
	assert.Error(t, err)
	_, err = client.List(ctx, "run", "not-hex", 1)
	assert.Error(t, err)
}

func TestEnsureIndexes(t *testing.T) {
	coll := &fakeCollection{}
	require.NoError(t, ensureIndexes(context.Background(), coll))
	assert.True(t, coll.indexed)
}
