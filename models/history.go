package models

import "time"

// NetworkSummary is the archived per-cycle view of the whole network.
type NetworkSummary struct {
	Timestamp       time.Time `bson:"timestamp" json:"timestamp"`
	TotalNodes      int       `bson:"total_nodes" json:"total_nodes"`
	OnlineNodes     int       `bson:"online_nodes" json:"online_nodes"`
	UnknownNodes    int       `bson:"unknown_nodes" json:"unknown_nodes"`
	OfflineNodes    int       `bson:"offline_nodes" json:"offline_nodes"`
	AverageHealth   float64   `bson:"average_health" json:"average_health"`
	UsedStorage     int64     `bson:"used_storage" json:"used_storage"`
	AnomalousNodes  int       `bson:"anomalous_nodes" json:"anomalous_nodes"`
	PartitionAlert  bool      `bson:"partition_alert" json:"partition_alert"`
	PartitionReason string    `bson:"partition_reason,omitempty" json:"partition_reason,omitempty"`
}

// NodeHistoryEntry is one node's archived state at a collection cycle.
type NodeHistoryEntry struct {
	Timestamp       time.Time  `bson:"timestamp" json:"timestamp"`
	NodeID          string     `bson:"node_id" json:"node_id"`
	Status          NodeStatus `bson:"status" json:"status"`
	HealthScore     float64    `bson:"health_score" json:"health_score"`
	ReputationScore float64    `bson:"reputation_score" json:"reputation_score"`
	StorageUsed     int64      `bson:"storage_used" json:"storage_used"`
}
