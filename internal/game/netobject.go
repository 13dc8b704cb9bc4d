package game

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"glade/server/internal/wire"
)

var (
	// ErrUnknownKind reports a wire kind tag with no registered decoder.
	ErrUnknownKind = errors.New("game: unknown network object kind")
	// ErrUnexpectedObjectMessage reports an object message the kind does
	// not accept.
	ErrUnexpectedObjectMessage = errors.New("game: unexpected object message")
)

// NetworkObject is a serializable object that can additionally exchange
// kind-specific messages with its peer across the wire.
type NetworkObject interface {
	Object

	// EncodeState serializes the object's full replicated state.
	EncodeState() []byte

	// ServerMessage handles a client-sent payload on the server. A non-nil
	// result is broadcast to every client.
	ServerMessage(data []byte) ([]byte, error)

	// ClientMessage handles a server-sent payload on the client.
	ClientMessage(data []byte) error

	// ServerTick runs once per authoritative tick. A non-nil result is
	// broadcast to every client; returning nil suppresses idle traffic.
	ServerTick() ([]byte, error)

	// ClientTick runs once per client frame. A non-nil result is sent to
	// the server.
	ClientTick() ([]byte, error)
}

// SilentMessages provides no-op message handlers for network objects that
// replicate state but never exchange custom payloads. Embed it and override
// what the kind needs.
type SilentMessages struct{}

func (SilentMessages) ServerMessage([]byte) ([]byte, error) { return nil, nil }

func (SilentMessages) ClientMessage([]byte) error { return ErrUnexpectedObjectMessage }

func (SilentMessages) ServerTick() ([]byte, error) { return nil, nil }

func (SilentMessages) ClientTick() ([]byte, error) { return nil, nil }

// BoxedNetworkObject pairs a network object with its wire-stable kind tag.
// The tag must always match the object's true runtime type: it is the only
// information available at decode time to pick the right decoder.
type BoxedNetworkObject struct {
	Kind   NetworkObjectID
	Object NetworkObject
}

// Encode appends the boxed object's wire form: the kind tag followed by the
// length-prefixed state payload.
func (b BoxedNetworkObject) Encode(w *wire.Writer) {
	w.Uvarint(uint64(b.Kind))
	w.Blob(b.Object.EncodeState())
}

// DecodeFunc reconstructs one network object kind from its state payload.
type DecodeFunc func(data []byte) (NetworkObject, error)

// Registry maps compile-time object kinds to wire-stable kind tags and back
// to decoders. It must be fully populated before any network traffic is
// processed; registration is not safe concurrently with lookups.
type Registry struct {
	mu       sync.RWMutex
	ids      networkObjectIDAllocator
	kinds    map[reflect.Type]NetworkObjectID
	decoders map[NetworkObjectID]DecodeFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		kinds:    make(map[reflect.Type]NetworkObjectID),
		decoders: make(map[NetworkObjectID]DecodeFunc),
	}
}

// Register assigns a fresh kind tag to T and stores its decoder. Registering
// the same type twice is a programming error and panics.
func Register[T NetworkObject](r *Registry, decode func(data []byte) (T, error)) NetworkObjectID {
	t := reflect.TypeOf((*T)(nil)).Elem()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[t]; exists {
		panic(fmt.Sprintf("game: network object %s registered twice", t))
	}
	id := r.ids.nextID()
	r.kinds[t] = id
	r.decoders[id] = func(data []byte) (NetworkObject, error) {
		return decode(data)
	}
	return id
}

// KindOf looks up the kind tag assigned to T, reporting false if T was never
// registered.
func KindOf[T NetworkObject](r *Registry) (NetworkObjectID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.kinds[reflect.TypeOf((*T)(nil)).Elem()]
	return id, ok
}

// Box wraps obj with its registered kind tag. It panics if obj's type was
// never registered, since an untagged object could never be decoded again.
func Box[T NetworkObject](r *Registry, obj T) BoxedNetworkObject {
	id, ok := KindOf[T](r)
	if !ok {
		panic(fmt.Sprintf("game: network object %s not registered", reflect.TypeOf((*T)(nil)).Elem()))
	}
	return BoxedNetworkObject{Kind: id, Object: obj}
}

// DecodeBoxed reads one boxed object from the reader, dispatching on the
// kind tag. An unregistered tag yields ErrUnknownKind after the payload has
// been consumed, so callers can skip the object and keep decoding.
func (r *Registry) DecodeBoxed(rd *wire.Reader) (BoxedNetworkObject, error) {
	kind, err := rd.Uvarint()
	if err != nil {
		return BoxedNetworkObject{}, err
	}
	payload, err := rd.Blob()
	if err != nil {
		return BoxedNetworkObject{}, err
	}

	r.mu.RLock()
	decode, ok := r.decoders[NetworkObjectID(kind)]
	r.mu.RUnlock()
	if !ok {
		return BoxedNetworkObject{}, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}

	obj, err := decode(payload)
	if err != nil {
		return BoxedNetworkObject{}, fmt.Errorf("decode object kind %d: %w", kind, err)
	}
	return BoxedNetworkObject{Kind: NetworkObjectID(kind), Object: obj}, nil
}
