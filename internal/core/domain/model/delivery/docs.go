// Package delivery contains the Delivery aggregate: the courier-facing
// fulfillment record, a 1:1 sub-lifecycle of an Order once it is READY.
// The ASSIGNED -> ACCEPTED edge is the contended one (two couriers racing
// to accept); repositories resolve it with a conditional update, while the
// aggregate validates every other edge.
package delivery
