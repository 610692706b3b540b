// Package node defines the in-memory node graph that the registry builds
// instances for and the sanity checker walks.
//
// A Node has an identity, an optional parent back-reference, a classifier and
// children grouped by containment. Parent pointers are never ownership edges:
// ownership is expressed only through containments.
//
// # Key Types
//
// **Node** (node.go): the read interface every node implements.
//
// **DynamicNode** (dynamic.go): a generic, mutable implementation. Host types
// usually embed *DynamicNode to pick up storage and the IDSetter behaviour.
//
// **ProxyNode** (proxy.go): a placeholder for a node that is not materialized
// locally, e.g. a child living in another partition.
package node
