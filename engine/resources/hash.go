package resources

import (
	"encoding/binary"
	"hash"
	m "math"

	"github.com/solarbyte/helios/engine/math"
)

/**
 * Fingerprint accumulator helpers. Floats are folded via their exact bit
 * pattern so that fingerprint equality implies bit-exact field equality;
 * hashing the decimal value would conflate e.g. 0.0 and -0.0.
 */

func hashUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	h.Write(buf[:])
}

func hashFloat32(h hash.Hash64, v float32) {
	hashUint32(h, m.Float32bits(v))
}

func hashBool(h hash.Hash64, v bool) {
	if v {
		hashUint32(h, 1)
	} else {
		hashUint32(h, 0)
	}
}

func hashString(h hash.Hash64, s string) {
	h.Write([]byte(s))
	// Separator so that ("ab","c") and ("a","bc") fold differently.
	h.Write([]byte{0})
}

func hashVec4(h hash.Hash64, v math.Vec4) {
	hashFloat32(h, v.X)
	hashFloat32(h, v.Y)
	hashFloat32(h, v.Z)
	hashFloat32(h, v.W)
}

func hashTextureMap(h hash.Hash64, tm *TextureMap) {
	if tm == nil || tm.Texture == nil {
		hashUint32(h, 0)
		return
	}
	hashUint32(h, 1)
	hashString(h, tm.Texture.Name)
	hashUint32(h, uint32(tm.Use))
	hashUint32(h, uint32(tm.FilterMinify))
	hashUint32(h, uint32(tm.FilterMagnify))
	hashUint32(h, uint32(tm.RepeatU))
	hashUint32(h, uint32(tm.RepeatV))
}
