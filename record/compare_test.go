package record

import (
	"math/rand"
	"testing"

	"github.com/jordanwade90/litestore/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPack(t *testing.T, vals ...value.Value) []byte {
	t.Helper()
	b, err := Pack(vals, DefaultOptions())
	require.NoError(t, err)
	return b
}

func mustCompare(t *testing.T, stored []byte, probe *UnpackedRecord) int {
	t.Helper()
	c, err := CompareBytes(stored, probe)
	require.NoError(t, err)
	return c
}

func TestCompareDescending(t *testing.T) {
	stored := mustPack(t, value.Int(3))

	asc := NewUnpackedRecord(NewKeyInfo(value.UTF8, false), 0, value.Int(5))
	assert.Equal(t, -1, mustCompare(t, stored, asc))

	desc := NewUnpackedRecord(NewKeyInfo(value.UTF8, true), 0, value.Int(5))
	assert.Equal(t, 1, mustCompare(t, stored, desc))
}

func TestComparePrefixMatch(t *testing.T) {
	stored := mustPack(t, value.Int(2), value.Int(99))
	ki := NewKeyInfo(value.UTF8, false, false)

	probe := NewUnpackedRecord(ki, PrefixMatch, value.Int(2))
	assert.Equal(t, 0, mustCompare(t, stored, probe))

	probe = probe.WithFlags(0)
	assert.Equal(t, 1, mustCompare(t, stored, probe), "a longer stored key sorts after its prefix")

	probe = probe.WithFlags(IncrKey)
	assert.Equal(t, -1, mustCompare(t, stored, probe), "IncrKey sorts the probe after every key it prefixes")

	probe = probe.WithFlags(IncrKey | PrefixMatch)
	assert.Equal(t, -1, mustCompare(t, stored, probe), "IncrKey wins over PrefixMatch")
}

func TestCompareIgnoreRowid(t *testing.T) {
	stored := mustPack(t, value.Int(2), value.Text("a"), value.Int(700))
	ki := NewKeyInfo(value.UTF8, false, false)

	probe := NewUnpackedRecord(ki, 0, value.Int(2), value.Text("a"))
	assert.Equal(t, 1, mustCompare(t, stored, probe))

	probe = probe.WithFlags(IgnoreRowid)
	assert.Equal(t, 0, mustCompare(t, stored, probe))
}

func TestCollationsPastNumFields(t *testing.T) {
	ki := NewKeyInfo(value.UTF8).WithCollations(value.NoCase)
	require.NotNil(t, ki.Collation(0))
	assert.False(t, ki.Desc(0))

	stored := mustPack(t, value.Text("ABC"))
	assert.Equal(t, 0, mustCompare(t, stored, NewUnpackedRecord(ki, 0, value.Text("abc"))))
}

func TestCompareShorterStoredKey(t *testing.T) {
	stored := mustPack(t, value.Int(2))
	probe := NewUnpackedRecord(NewKeyInfo(value.UTF8, false, false), 0, value.Int(2), value.Int(5))
	assert.Equal(t, 0, mustCompare(t, stored, probe))
}

func TestCompareCollation(t *testing.T) {
	stored := mustPack(t, value.Text("ABC"))

	ki := NewKeyInfo(value.UTF8, false)
	probe := NewUnpackedRecord(ki, 0, value.Text("abc"))
	assert.Equal(t, -1, mustCompare(t, stored, probe))

	probe = NewUnpackedRecord(ki.WithCollations(value.NoCase), 0, value.Text("abc"))
	assert.Equal(t, 0, mustCompare(t, stored, probe))
	assert.Nil(t, ki.Collation(0), "WithCollations does not modify the original")
}

func TestCompareUTF16Key(t *testing.T) {
	opts := Options{Encoding: value.UTF16BE}
	stored, err := Pack([]value.Value{value.Text("b")}, opts)
	require.NoError(t, err)

	ki := NewKeyInfo(value.UTF16BE, false)
	for probe, want := range map[string]int{"a": 1, "b": 0, "c": -1} {
		c, err := CompareBytes(stored, NewUnpackedRecord(ki, 0, value.Text(probe)))
		require.NoError(t, err)
		assert.Equal(t, want, c, "probe %q", probe)
	}
}

func TestCompareCorrupt(t *testing.T) {
	probe := NewUnpackedRecord(NewKeyInfo(value.UTF8, false), 0, value.Int(1))
	_, err := CompareBytes([]byte{0x7f, 0x01}, probe)
	assert.True(t, value.IsCorrupt(err))
}

func TestUnpackKey(t *testing.T) {
	ki := NewKeyInfo(value.UTF8, false, true)
	stored := mustPack(t, value.Text("k"), value.Int(9))

	probe, err := UnpackKey(ki, Bytes(stored), 0)
	require.NoError(t, err)
	require.Equal(t, 2, probe.Len())
	assert.True(t, value.Int(9).Equal(probe.Value(1)))
	assert.Equal(t, 0, mustCompare(t, stored, probe))
}

func randomValue(rng *rand.Rand) value.Value {
	switch rng.Intn(6) {
	case 0:
		return value.Null()
	case 1:
		if rng.Intn(4) == 0 {
			return value.Int(1<<53 + int64(rng.Intn(5)-2))
		}
		return value.Int(int64(rng.Intn(7) - 3))
	case 2:
		if rng.Intn(4) == 0 {
			return value.Float(1<<53 + float64(2*rng.Intn(3)-2))
		}
		return value.Float(float64(rng.Intn(13)-6) / 2)
	case 3:
		return value.Text(string(rune('a' + rng.Intn(3))))
	case 4:
		return value.Text(string(rune('A' + rng.Intn(3))))
	default:
		return value.Blob([]byte{byte(rng.Intn(3))})
	}
}

func TestCompareTotalOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ki := NewKeyInfo(value.UTF8, false, true).WithCollations(value.NoCase)

	keys := make([][]value.Value, 14)
	packed := make([][]byte, len(keys))
	for i := range keys {
		keys[i] = []value.Value{randomValue(rng), randomValue(rng)}
		packed[i] = mustPack(t, keys[i]...)
	}

	// ord(a, b) is the sign of stored a minus probe b.
	ord := func(a, b int) int {
		probe := NewUnpackedRecord(ki, 0, keys[b]...)
		c := mustCompare(t, packed[a], probe)
		require.Equal(t, c, probe.CompareValues(keys[a]), "materialized comparison disagrees")
		return c
	}

	for a := range keys {
		require.Equal(t, 0, ord(a, a), "key %v", keys[a])
		for b := range keys {
			ab := ord(a, b)
			require.Equal(t, -ab, ord(b, a), "%v vs %v", keys[a], keys[b])
			for c := range keys {
				if ab <= 0 && ord(b, c) <= 0 {
					require.LessOrEqual(t, ord(a, c), 0, "%v <= %v <= %v", keys[a], keys[b], keys[c])
				}
			}
		}
	}
}

func TestCompareLargeMixedNumbers(t *testing.T) {
	keys := []value.Value{value.Int(1<<53 + 1), value.Float(1 << 53), value.Int(1 << 53)}
	ki := NewKeyInfo(value.UTF8, false)

	ord := func(a, b int) int {
		return mustCompare(t, mustPack(t, keys[a]), NewUnpackedRecord(ki, 0, keys[b]))
	}
	assert.Equal(t, 1, ord(0, 1))
	assert.Equal(t, 0, ord(1, 2))
	assert.Equal(t, 1, ord(0, 2))
	assert.Equal(t, -1, ord(2, 0))
	assert.Equal(t, -1, ord(1, 0))
}

func TestCompareIsRepeatable(t *testing.T) {
	stored := mustPack(t, value.Text("x"), value.Float(1.5))
	probe := NewUnpackedRecord(NewKeyInfo(value.UTF8, false, false), PrefixMatch, value.Text("x"))
	first := mustCompare(t, stored, probe)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, mustCompare(t, stored, probe))
	}
}
