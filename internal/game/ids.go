package game

import "sync/atomic"

// ClientID identifies one connected player for the lifetime of the process.
type ClientID uint32

// ObjectID identifies one live network object instance.
type ObjectID uint32

// NetworkObjectID identifies a network object kind. Every instance of the
// same kind shares it, and it is the tag written to the wire ahead of the
// object payload.
type NetworkObjectID uint64

// ClientIDAllocator mints process-unique client ids. Each allocator owns its
// own counter; ids are unique only among values minted by the same allocator.
type ClientIDAllocator struct {
	next atomic.Uint32
}

// Next returns a client id strictly greater than any previously returned.
func (a *ClientIDAllocator) Next() ClientID {
	return ClientID(a.next.Add(1))
}

// ObjectIDAllocator mints process-unique object instance ids.
type ObjectIDAllocator struct {
	next atomic.Uint32
}

// Next returns an object id strictly greater than any previously returned.
func (a *ObjectIDAllocator) Next() ObjectID {
	return ObjectID(a.next.Add(1))
}

type networkObjectIDAllocator struct {
	next atomic.Uint64
}

func (a *networkObjectIDAllocator) nextID() NetworkObjectID {
	return NetworkObjectID(a.next.Add(1))
}
