package domain

import (
	"errors"
	"strings"
	"testing"
)

func validProductionConfig() InstanceConfig {
	return InstanceConfig{
		Name: "my-instance",
		Type: InstanceTypeProduction,
		Clusters: []ClusterConfig{
			{Name: "my-cluster", Zone: "us-central1-f", Storage: StorageSSD, ServeNodes: 3},
		},
	}
}

func TestInstanceConfig_Validate(t *testing.T) {
	cfg := validProductionConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestInstanceConfig_Validate_NameRequired(t *testing.T) {
	cfg := validProductionConfig()
	cfg.Name = ""

	if err := cfg.Validate(); !errors.Is(err, ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
}

func TestInstanceConfig_Validate_UnknownType(t *testing.T) {
	cfg := validProductionConfig()
	cfg.Type = "STAGING"

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown instance type")
	}
}

func TestInstanceConfig_Validate_NoClusters(t *testing.T) {
	cfg := validProductionConfig()
	cfg.Clusters = nil

	if err := cfg.Validate(); !errors.Is(err, ErrNoClusters) {
		t.Errorf("expected ErrNoClusters, got %v", err)
	}
}

func TestInstanceConfig_Validate_DuplicateClusterName(t *testing.T) {
	cfg := validProductionConfig()
	cfg.Clusters = append(cfg.Clusters, ClusterConfig{
		Name: "my-cluster", Zone: "us-central1-c", Storage: StorageSSD, ServeNodes: 3,
	})

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate cluster name") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClusterConfig_Validate(t *testing.T) {
	tests := []struct {
		name         string
		instanceType InstanceType
		cluster      ClusterConfig
		wantErr      error
	}{
		{
			name:         "valid production",
			instanceType: InstanceTypeProduction,
			cluster:      ClusterConfig{Name: "c1", Zone: "us-central1-f", Storage: StorageSSD, ServeNodes: 3},
		},
		{
			name:         "valid development",
			instanceType: InstanceTypeDevelopment,
			cluster:      ClusterConfig{Name: "c1", Zone: "us-central1-f", Storage: StorageHDD},
		},
		{
			name:         "missing name",
			instanceType: InstanceTypeProduction,
			cluster:      ClusterConfig{Zone: "us-central1-f", Storage: StorageSSD, ServeNodes: 3},
			wantErr:      ErrNameRequired,
		},
		{
			name:         "missing zone",
			instanceType: InstanceTypeProduction,
			cluster:      ClusterConfig{Name: "c1", Storage: StorageSSD, ServeNodes: 3},
			wantErr:      ErrZoneRequired,
		},
		{
			name:         "production without nodes",
			instanceType: InstanceTypeProduction,
			cluster:      ClusterConfig{Name: "c1", Zone: "us-central1-f", Storage: StorageSSD},
			wantErr:      ErrProductionNodes,
		},
		{
			name:         "development with nodes",
			instanceType: InstanceTypeDevelopment,
			cluster:      ClusterConfig{Name: "c1", Zone: "us-central1-f", Storage: StorageHDD, ServeNodes: 3},
			wantErr:      ErrDevelopmentNodes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cluster.Validate(tt.instanceType)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected valid cluster, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestClusterConfig_Validate_UnknownStorage(t *testing.T) {
	cluster := ClusterConfig{Name: "c1", Zone: "us-central1-f", Storage: "nvme", ServeNodes: 3}

	if err := cluster.Validate(InstanceTypeProduction); err == nil {
		t.Error("expected error for unknown storage type")
	}
}

func TestParseInstanceType(t *testing.T) {
	if _, err := ParseInstanceType("PRODUCTION"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseInstanceType("DEVELOPMENT"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseInstanceType("production"); err == nil {
		t.Error("expected error for lowercase type")
	}
}

func TestParseStorageType(t *testing.T) {
	if _, err := ParseStorageType("ssd"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseStorageType("hdd"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseStorageType("SSD"); err == nil {
		t.Error("expected error for uppercase storage")
	}
}
