package interp

import "github.com/pkg/errors"

// Block is a single half-open-in-spirit (but closed-closed, adjoining)
// interval [Lo, Hi] tracked by an IndexMapper.
type Block struct {
	Lo, Hi float64
}

// IndexMapper maps a scalar key to the index of the contiguous block
// covering it in O(1)-expected time, per spec.md section 4.9.6. Grounded on
// original_source/include/mth_index_mapper.h: an evenly-spaced auxiliary
// index built from the largest block size gives an approximate starting
// index, refined by a short backward-then-forward linear search.
type IndexMapper struct {
	blocks []Block
	bsize  float64 // largest block size
	rng    float64 // total covered range
	n      int
	val0   float64
	imap   []int
}

// NewIndexMapper builds an IndexMapper over blocks, which must be given in
// increasing order, each with Hi > Lo, and without gaps between consecutive
// blocks (block[i].Hi must be >= block[i+1].Lo).
func NewIndexMapper(blocks []Block) (*IndexMapper, error) {
	if len(blocks) == 0 {
		return nil, errors.New("interp: NewIndexMapper: no blocks given")
	}

	m := &IndexMapper{blocks: blocks}
	m.rng = blocks[len(blocks)-1].Hi - blocks[0].Lo
	m.bsize = blocks[0].Hi - blocks[0].Lo
	for _, b := range blocks {
		if b.Hi <= b.Lo {
			return nil, errors.Errorf("interp: NewIndexMapper: invalid block [%v, %v]", b.Lo, b.Hi)
		}
		if b.Hi-b.Lo > m.bsize {
			m.bsize = b.Hi - b.Lo
		}
	}
	m.n = int(m.rng / m.bsize)

	for i := 1; i < len(blocks); i++ {
		if blocks[i-1].Hi < blocks[i].Lo {
			return nil, errors.Errorf("interp: NewIndexMapper: disjoint blocks at index %d", i)
		}
	}

	m.val0 = blocks[0].Lo
	val := m.val0 + m.bsize
	ii := 0
	for val <= blocks[len(blocks)-1].Hi {
		outside := false
		for !outside {
			if val <= blocks[ii].Hi {
				outside = true
				m.imap = append(m.imap, ii)
			}
			ii++
		}
		val += m.bsize
	}

	return m, nil
}

// GetIndex returns the index of the block covering val.
func (m *IndexMapper) GetIndex(val float64) (int, error) {
	rng := val - m.val0
	ndx := int(float64(m.n) * (rng / m.rng))
	if ndx < 0 {
		ndx = 0
	}
	if len(m.imap) <= ndx {
		if len(m.imap) == 0 {
			ndx = 0
		} else {
			ndx = m.imap[len(m.imap)-1]
		}
	} else {
		ndx = m.imap[ndx]
	}

	if len(m.blocks) <= ndx {
		ndx = len(m.blocks) - 1
	}
	ndx0 := ndx
	found := false
	for !found {
		if m.blocks[ndx].Hi < val {
			break
		}
		if m.blocks[ndx].Lo <= val && val <= m.blocks[ndx].Hi {
			found = true
		} else if ndx == 0 {
			break
		} else {
			ndx--
		}
	}

	if !found {
		ndx = ndx0
		for ndx < len(m.blocks) && !found {
			if m.blocks[ndx].Lo <= val && val <= m.blocks[ndx].Hi {
				found = true
			} else {
				ndx++
			}
		}
	}

	if !found {
		return 0, errors.Errorf("interp: IndexMapper.GetIndex: value %v not covered", val)
	}
	return ndx, nil
}
