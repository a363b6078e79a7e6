package bridge

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/interop-lab/managed-go-bridge/pkg/foreign"
	"github.com/interop-lab/managed-go-bridge/pkg/foreign/foreigntest"
)

// playerRef is a generated-style reference type.
type playerRef struct {
	Object
}

// unityRef is a generated-style reference type with a native shadow pointer.
type unityRef struct {
	ShadowedObject
}

// vec3 is a generated-style value type: three float32 components.
type vec3 struct {
	Inline[[12]byte]
}

func vec3Of(x, y, z float32) vec3 {
	var v vec3
	b := v.InlineBytes()
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(x))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(y))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(z))
	return v
}

// newFake installs a fresh fake runtime and clears the process-wide
// resolution caches so handles from earlier tests cannot leak in.
func newFake(t *testing.T) *foreigntest.Fake {
	t.Helper()
	classResolvers.Clear()
	classCache.Clear()
	staticFields.Clear()
	fake := foreigntest.New()
	foreign.Use(fake)
	return fake
}
