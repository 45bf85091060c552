package assembly

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/pagedeck/internal/workspace"
)

// fakeDoc yields synthetic page buffers that encode which source, page and
// rotation they came from, so tests can assert output composition.
type fakeDoc struct {
	id    string
	pages int
}

func (d *fakeDoc) ExtractPage(pageIndex, rotation int) ([]byte, error) {
	if pageIndex < 0 || pageIndex >= d.pages {
		return nil, fmt.Errorf("page %d out of range", pageIndex)
	}
	return []byte(fmt.Sprintf("%s/p%d/r%d", d.id, pageIndex, rotation)), nil
}

type fakeCodec struct {
	opens   int
	openErr error
}

func (c *fakeCodec) Open(data []byte) (Document, error) {
	c.opens++
	if c.openErr != nil {
		return nil, c.openErr
	}
	return &fakeDoc{id: string(data[:1]), pages: int(data[1])}, nil
}

func (c *fakeCodec) Merge(pages [][]byte) ([]byte, error) {
	var out []byte
	for i, p := range pages {
		if i > 0 {
			out = append(out, '|')
		}
		out = append(out, p...)
	}
	return out, nil
}

func source(id string, pages int) *workspace.SourceDocument {
	return &workspace.SourceDocument{
		ID:        id,
		Name:      id + ".pdf",
		Data:      []byte{id[0], byte(pages)},
		PageCount: pages,
	}
}

func ref(src string, page, rot int) workspace.PageReference {
	return workspace.PageReference{
		ID:        fmt.Sprintf("ref-%s-%d", src, page),
		SourceID:  src,
		PageIndex: page,
		Rotation:  rot,
	}
}

func TestMergeFollowsSequenceOrderAndRotation(t *testing.T) {
	codec := &fakeCodec{}
	e := New(codec)

	snap := workspace.Snapshot{
		Pages: []workspace.PageReference{
			ref("b", 1, 90),
			ref("a", 0, 0),
			ref("b", 0, 270),
		},
		Sources: map[string]*workspace.SourceDocument{
			"a": source("a", 1),
			"b": source("b", 2),
		},
	}

	out, err := e.Merge(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, "b/p1/r90|a/p0/r0|b/p0/r270", string(out))
}

func TestMergeParsesEachSourceOnce(t *testing.T) {
	codec := &fakeCodec{}
	e := New(codec)

	// Five references into the same source must cost a single parse.
	pages := make([]workspace.PageReference, 5)
	for i := range pages {
		pages[i] = ref("a", i, 0)
	}
	snap := workspace.Snapshot{
		Pages:   pages,
		Sources: map[string]*workspace.SourceDocument{"a": source("a", 5)},
	}

	_, err := e.Merge(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, 1, codec.opens)
}

func TestMergeEmptySequence(t *testing.T) {
	e := New(&fakeCodec{})
	_, err := e.Merge(context.Background(), workspace.Snapshot{})
	var asmErr *AssemblyError
	assert.ErrorAs(t, err, &asmErr)
}

func TestMergeDanglingSourceReference(t *testing.T) {
	e := New(&fakeCodec{})
	snap := workspace.Snapshot{
		Pages:   []workspace.PageReference{ref("ghost", 0, 0)},
		Sources: map[string]*workspace.SourceDocument{},
	}
	_, err := e.Merge(context.Background(), snap)
	var asmErr *AssemblyError
	require.ErrorAs(t, err, &asmErr)
	assert.Equal(t, "ref-ghost-0", asmErr.PageRef)
}

func TestMergeOpenFailure(t *testing.T) {
	codec := &fakeCodec{openErr: errors.New("corrupt trailer")}
	e := New(codec)
	snap := workspace.Snapshot{
		Pages:   []workspace.PageReference{ref("a", 0, 0)},
		Sources: map[string]*workspace.SourceDocument{"a": source("a", 1)},
	}
	_, err := e.Merge(context.Background(), snap)
	var asmErr *AssemblyError
	require.ErrorAs(t, err, &asmErr)
	assert.ErrorIs(t, err, codec.openErr)
}

func TestMergeExtractOutOfRange(t *testing.T) {
	e := New(&fakeCodec{})
	snap := workspace.Snapshot{
		Pages:   []workspace.PageReference{ref("a", 7, 0)},
		Sources: map[string]*workspace.SourceDocument{"a": source("a", 1)},
	}
	_, err := e.Merge(context.Background(), snap)
	var asmErr *AssemblyError
	assert.ErrorAs(t, err, &asmErr)
}

func TestSplitAllMatchesMergeExtraction(t *testing.T) {
	e := New(&fakeCodec{})
	snap := workspace.Snapshot{
		Pages: []workspace.PageReference{
			ref("a", 1, 180),
			ref("a", 0, 0),
		},
		Sources: map[string]*workspace.SourceDocument{"a": source("a", 2)},
	}

	parts, err := e.SplitAll(context.Background(), snap)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "a/p1/r180", string(parts[0]))
	assert.Equal(t, "a/p0/r0", string(parts[1]))
}

func TestExtractHonorsContextCancellation(t *testing.T) {
	e := New(&fakeCodec{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snap := workspace.Snapshot{
		Pages:   []workspace.PageReference{ref("a", 0, 0)},
		Sources: map[string]*workspace.SourceDocument{"a": source("a", 1)},
	}
	_, err := e.Merge(ctx, snap)
	assert.ErrorIs(t, err, context.Canceled)
}
