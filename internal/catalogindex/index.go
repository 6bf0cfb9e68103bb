package catalogindex

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"

	"github.com/fitcoach/routinecoach/internal/errors"
)

// ErrCatalogInconsistent is raised when the vector file's row count
// disagrees with the metadata sidecar's row count.
var ErrCatalogInconsistent = errors.NewSentinel("catalog index and metadata row counts differ")

// Index is an immutable, read-only inner-product index over
// unit-normalized vectors, with a parallel metadata array indexed by
// the same row ordinal. It is safe for concurrent reads; nothing
// mutates it after Load/New returns.
type Index struct {
	dimension int
	model     string
	vectors   [][]float32
	metadata  []Exercise
}

// New builds an in-memory index directly from vectors and metadata;
// Load uses it once the on-disk artifacts are read, and tests call it
// directly. Every vector
// must have the same dimension, and len(vectors) must equal
// len(metadata).
func New(model string, vectors [][]float32, metadata []Exercise) (*Index, error) {
	if len(vectors) != len(metadata) {
		return nil, errors.Wrap(ErrCatalogInconsistent, "build index",
			slog.Int("vectorRows", len(vectors)), slog.Int("metadataRows", len(metadata)))
	}

	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, errors.Wrap(ErrCatalogInconsistent, "build index",
				slog.Int("row", i))
		}
	}

	return &Index{dimension: dim, model: model, vectors: vectors, metadata: metadata}, nil
}

// Dimension returns the vector dimensionality the index was built
// with.
func (idx *Index) Dimension() int { return idx.dimension }

// Model returns the embedding model identifier the index was built
// against.
func (idx *Index) Model() string { return idx.model }

// Len returns the number of rows in the index.
func (idx *Index) Len() int { return len(idx.vectors) }

// Search returns up to k (score, candidate) pairs sorted by
// descending inner product. queryVec is assumed already
// L2-normalized, matching the stored rows, so inner product equals
// cosine similarity. Rows with a metadata index out of range are
// skipped rather than causing an error.
func (idx *Index) Search(queryVec []float32, k int) ([]Candidate, error) {
	if k <= 0 {
		return nil, nil
	}
	if len(queryVec) != idx.dimension {
		return nil, errors.Wrap(ErrCatalogInconsistent, "search",
			slog.Int("queryDim", len(queryVec)), slog.Int("indexDim", idx.dimension))
	}

	type scored struct {
		score float64
		row   int
	}
	scores := make([]scored, 0, len(idx.vectors))
	for row, v := range idx.vectors {
		if row >= len(idx.metadata) {
			continue
		}
		scores = append(scores, scored{score: innerProduct(queryVec, v), row: row})
	}

	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if k > len(scores) {
		k = len(scores)
	}
	out := make([]Candidate, k)
	for i := 0; i < k; i++ {
		out[i] = Candidate{Score: scores[i].score, Exercise: idx.metadata[scores[i].row]}
	}
	return out, nil
}

func innerProduct(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// L2Normalize scales v to unit length so that inner product against
// another unit-length vector equals cosine similarity. Both the
// catalog vectors internal/ingest writes and the query vector
// internal/search embeds must go through this same normalization, or
// Search's inner product stops being cosine similarity. A zero vector
// is returned unchanged since it has no direction to normalize.
func L2Normalize(v []float32) []float32 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	if sumSquares == 0 {
		return v
	}
	norm := math.Sqrt(sumSquares)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// binaryMagic identifies the vector file format produced by
// internal/ingest's writer.
const binaryMagic = "RSV1"

// Load reads the binary vector file and the JSON-lines metadata
// sidecar produced by internal/ingest, and returns a ready-to-query
// Index. It refuses to start (returns ErrCatalogInconsistent) if the
// row counts differ, per the co-versioning requirement on the two
// on-disk artifacts.
func Load(ctx context.Context, vectorPath, metadataPath string) (*Index, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	vectors, model, err := readVectorFile(vectorPath)
	if err != nil {
		return nil, errors.Wrap(err, "read vector file", slog.String("path", vectorPath))
	}

	metadata, err := readMetadataFile(metadataPath)
	if err != nil {
		return nil, errors.Wrap(err, "read metadata file", slog.String("path", metadataPath))
	}

	return New(model, vectors, metadata)
}

func readVectorFile(path string) ([][]float32, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	magic := make([]byte, len(binaryMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, "", fmt.Errorf("read magic: %w", err)
	}
	if string(magic) != binaryMagic {
		return nil, "", fmt.Errorf("unexpected magic %q", magic)
	}

	var rowCount, dim, modelLen uint32
	if err := binary.Read(r, binary.LittleEndian, &rowCount); err != nil {
		return nil, "", fmt.Errorf("read row count: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, "", fmt.Errorf("read dimension: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &modelLen); err != nil {
		return nil, "", fmt.Errorf("read model length: %w", err)
	}
	modelBytes := make([]byte, modelLen)
	if _, err := io.ReadFull(r, modelBytes); err != nil {
		return nil, "", fmt.Errorf("read model identifier: %w", err)
	}

	vectors := make([][]float32, rowCount)
	for row := range vectors {
		vec := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, &vec); err != nil {
			return nil, "", fmt.Errorf("read row %d: %w", row, err)
		}
		vectors[row] = vec
	}

	return vectors, string(modelBytes), nil
}

func readMetadataFile(path string) ([]Exercise, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var metadata []Exercise
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ex Exercise
		if err := json.Unmarshal(line, &ex); err != nil {
			return nil, fmt.Errorf("unmarshal exercise row: %w", err)
		}
		metadata = append(metadata, ex)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return metadata, nil
}

// Write serializes vectors and metadata to the on-disk format Load
// reads, for use by internal/ingest's builder.
func Write(vectorPath, metadataPath, model string, vectors [][]float32, metadata []Exercise) error {
	if len(vectors) != len(metadata) {
		return errors.Wrap(ErrCatalogInconsistent, "write index")
	}

	if err := writeVectorFile(vectorPath, model, vectors); err != nil {
		return fmt.Errorf("write vector file: %w", err)
	}
	if err := writeMetadataFile(metadataPath, metadata); err != nil {
		return fmt.Errorf("write metadata file: %w", err)
	}
	return nil
}

func writeVectorFile(path, model string, vectors [][]float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(binaryMagic); err != nil {
		return err
	}

	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	modelBytes := []byte(model)

	if err := binary.Write(w, binary.LittleEndian, uint32(len(vectors))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(dim)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(modelBytes))); err != nil {
		return err
	}
	if _, err := w.Write(modelBytes); err != nil {
		return err
	}
	for _, v := range vectors {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return w.Flush()
}

func writeMetadataFile(path string, metadata []Exercise) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, ex := range metadata {
		if err := enc.Encode(ex); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	}
	return nil
}
