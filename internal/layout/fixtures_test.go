package layout

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func folder(id, parent, name string) Record {
	return Record{ID: ID(id), ParentID: ID(parent), Name: name, Kind: Folder}
}

func doc(id, parent, name string, size int64) Record {
	return Record{ID: ID(id), ParentID: ID(parent), Name: name, Kind: Document, Size: size}
}

// rootTwoFiles is R with documents A (800) and B (600).
func rootTwoFiles() []Record {
	return []Record{
		folder("r", "r", "Root"),
		doc("a", "r", "file1", 800),
		doc("b", "r", "file2", 600),
	}
}

// nestedChain is R -> F1 -> F2 -> D(800).
func nestedChain() []Record {
	return []Record{
		folder("r", "r", "Root"),
		folder("f1", "r", "Layer1"),
		folder("f2", "f1", "Layer2"),
		doc("d", "f2", "file", 800),
	}
}

// twoBranches has a left folder with one 800 byte file and a right folder
// with two 300 byte files. Folder declared sizes are deliberately non-zero.
func twoBranches() []Record {
	left := folder("9b05", "root", "leftlayer1")
	left.Size = 1000
	right := folder("219d", "root", "rightlayer1")
	right.Size = 1000
	root := folder("root", "root", "Root")
	root.Size = 1000
	return []Record{
		root,
		left,
		doc("1c89", "9b05", "leftlayer2file", 800),
		right,
		doc("f2c9", "219d", "rightlayer2file1", 300),
		doc("fe77", "219d", "rightlayer2file2", 300),
	}
}

// jumbled lists children before their parents.
func jumbled() []Record {
	return []Record{
		doc("left3", "left2", "Left3", 800),
		folder("root", "root", "Root"),
		folder("left1", "root", "Left1"),
		folder("left2", "left1", "Left2"),
		doc("right2", "left1", "Right2", 2000),
	}
}

// randomTree builds a deterministic pseudo-random hierarchy.
func randomTree(seed int64, n int) []Record {
	rng := rand.New(rand.NewSource(seed))
	recs := []Record{folder("0", "0", "root")}
	folders := []string{"0"}
	for i := 1; i < n; i++ {
		id := fmt.Sprint(i)
		parent := folders[rng.Intn(len(folders))]
		if rng.Intn(3) == 0 {
			recs = append(recs, folder(id, parent, "dir"+id))
			folders = append(folders, id)
			continue
		}
		recs = append(recs, doc(id, parent, "file"+id, rng.Int63n(1<<20)))
	}
	return recs
}

func mustBuild(t *testing.T, recs []Record) (*Index, *SizeTable) {
	t.Helper()
	x, err := BuildIndex(recs)
	require.NoError(t, err)
	return x, Aggregate(x)
}
