// Package messaging publishes and consumes domain events over a broker.
//
// NATS and Kafka back production deployments. Memory delivers in process and
// is used for local runs and tests. Usecases only see Publisher, consumers
// only see Consumer.
package messaging
