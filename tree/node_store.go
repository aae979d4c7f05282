package tree

import (
	"context"
	"fmt"
	"sync"
)

/*
NodeStore is an interface to manage a store where nodes can be
created, retrieved, updated and deleted. It is the arena the tree's
nodes live in: nodes reference each other by ID only.

All its methods take a context that may allow cancelling the
operation (thus forcing the return of an error) if the
implementation allows it.
*/
type NodeStore interface {
	// Create takes a node and stores it for the first time,
	// assigning it an ID. It returns an error if the node cannot
	// be stored.
	Create(ctx context.Context, n *Node) error
	// Get takes an id and returns the node in the store with that
	// id (or nil if it cannot be found) or an error if the store
	// cannot be queried.
	Get(ctx context.Context, id string) (*Node, error)
	// Store takes a node already existing in the store and updates
	// it. It expects the node to have an ID, which it will not
	// alter.
	Store(ctx context.Context, n *Node) error
	// Delete removes a node from the store. It returns an error if
	// the node exists but the deletion cannot be performed.
	Delete(ctx context.Context, n *Node) error
	// Close closes the store; implementations should free any
	// resources in use and apply pending changes before returning
	// (unless the context expires).
	Close(ctx context.Context) error
}

/*
Counter is implemented by node stores that can report how many nodes
they hold. Growing uses it to enforce a MaxNodes cap when the store
supports it.
*/
type Counter interface {
	Count(ctx context.Context) (int, error)
}

type memoryNodeStore struct {
	mu     sync.RWMutex
	nodes  map[string]*Node
	nextID uint64
}

/*
NewMemoryNodeStore returns an implementation of NodeStore with the
process memory space as underlying backend. IDs are assigned
sequentially, so identical fits against fresh stores produce
identical node IDs.
*/
func NewMemoryNodeStore() NodeStore {
	return &memoryNodeStore{nodes: make(map[string]*Node)}
}

func (mns *memoryNodeStore) Create(ctx context.Context, n *Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mns.mu.Lock()
	defer mns.mu.Unlock()
	mns.nextID++
	n.ID = fmt.Sprintf("n%d", mns.nextID)
	mns.nodes[n.ID] = n
	return nil
}

func (mns *memoryNodeStore) Get(ctx context.Context, id string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mns.mu.RLock()
	defer mns.mu.RUnlock()
	return mns.nodes[id], nil
}

func (mns *memoryNodeStore) Store(ctx context.Context, n *Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.ID == "" {
		return fmt.Errorf("storing node: node has no ID")
	}
	mns.mu.Lock()
	defer mns.mu.Unlock()
	mns.nodes[n.ID] = n
	return nil
}

func (mns *memoryNodeStore) Delete(ctx context.Context, n *Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mns.mu.Lock()
	defer mns.mu.Unlock()
	delete(mns.nodes, n.ID)
	return nil
}

func (mns *memoryNodeStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	mns.mu.RLock()
	defer mns.mu.RUnlock()
	return len(mns.nodes), nil
}

func (mns *memoryNodeStore) Close(ctx context.Context) error {
	return nil
}
