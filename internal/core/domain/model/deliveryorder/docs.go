// Package deliveryorder tracks aggregate demand per order id and the jobs
// serving it. The Book is the only owner of DeliveryOrder values; jobs are
// referenced by id only.
package deliveryorder
