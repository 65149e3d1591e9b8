package enums

import "fmt"

// Partition is an isolated inventory namespace. Balances never aggregate
// across partitions.
type Partition string

const (
	PartitionMember     Partition = "membro"
	PartitionManagement Partition = "gerencia"
)

var validPartitions = []Partition{PartitionMember, PartitionManagement}

func (p Partition) IsValid() bool {
	for _, candidate := range validPartitions {
		if candidate == p {
			return true
		}
	}
	return false
}

// InventorySheet names the balance sheet backing this partition.
func (p Partition) InventorySheet() string {
	return "inventario_" + string(p)
}

// LedgerSheet names the movement log sheet for this partition and direction.
func (p Partition) LedgerSheet(direction Direction) string {
	return fmt.Sprintf("registro_%s_%s", direction, p)
}

func ParsePartition(value string) (Partition, error) {
	for _, candidate := range validPartitions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid partition %q", value)
}
