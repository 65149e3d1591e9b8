package enums

import "testing"

func TestParseDirection(t *testing.T) {
	tests := []struct {
		raw     string
		want    Direction
		wantErr bool
	}{
		{raw: "entrada", want: DirectionIn},
		{raw: "saida", want: DirectionOut},
		{raw: "ENTRADA", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseDirection(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseDirection(%q): %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseDirection(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestDirectionLabel(t *testing.T) {
	if got := DirectionIn.Label(); got != "ENTRADA" {
		t.Fatalf("DirectionIn.Label() = %q", got)
	}
	if got := DirectionOut.Label(); got != "SAIDA" {
		t.Fatalf("DirectionOut.Label() = %q", got)
	}
}

func TestPartitionSheetNames(t *testing.T) {
	if got := PartitionMember.InventorySheet(); got != "inventario_membro" {
		t.Fatalf("member inventory sheet = %q", got)
	}
	if got := PartitionManagement.LedgerSheet(DirectionIn); got != "registro_entrada_gerencia" {
		t.Fatalf("management in ledger sheet = %q", got)
	}
	if got := PartitionMember.LedgerSheet(DirectionOut); got != "registro_saida_membro" {
		t.Fatalf("member out ledger sheet = %q", got)
	}
}

func TestPartitionIsValid(t *testing.T) {
	if !PartitionMember.IsValid() || !PartitionManagement.IsValid() {
		t.Fatal("canonical partitions should be valid")
	}
	if Partition("staff").IsValid() {
		t.Fatal("unknown partition should be invalid")
	}
}
