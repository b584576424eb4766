package model

import "strings"

// Contract fields, in the order they are reported when missing.
const (
	ContractFieldClientBirthPlace = "client_birth_place"
	ContractFieldClientBirthDate  = "client_birth_date"
	ContractFieldClientTaxID      = "client_tax_id"
	ContractFieldClientStreet     = "client_street"
	ContractFieldClientCity       = "client_city"
	ContractFieldClientZip        = "client_zip"
	ContractFieldPropertyStreet   = "property_street"
	ContractFieldPropertyCity     = "property_city"
	ContractFieldPropertyZip      = "property_zip"
	ContractFieldAreaSqm          = "area_sqm"
	ContractFieldFloorMaterial    = "floor_material"
)

func filled(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// MissingContractFields lists the contract data still absent from p.
// Property address fields are only required when it differs from the client address.
func MissingContractFields(p *Project) []string {
	if p == nil {
		return []string{ContractFieldClientBirthPlace}
	}
	var missing []string
	check := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}

	check(ContractFieldClientBirthPlace, filled(p.ClientBirthPlace))
	check(ContractFieldClientBirthDate, filled(p.ClientBirthDate))
	check(ContractFieldClientTaxID, filled(p.ClientTaxID))
	check(ContractFieldClientStreet, filled(p.ClientStreet))
	check(ContractFieldClientCity, filled(p.ClientCity))
	check(ContractFieldClientZip, filled(p.ClientZip))

	if !p.PropertyAddressSame {
		check(ContractFieldPropertyStreet, filled(p.PropertyStreet))
		check(ContractFieldPropertyCity, filled(p.PropertyCity))
		check(ContractFieldPropertyZip, filled(p.PropertyZip))
	}

	check(ContractFieldAreaSqm, p.AreaSqm != nil && *p.AreaSqm > 0)
	check(ContractFieldFloorMaterial, p.FloorMaterial != nil && *p.FloorMaterial != "")
	return missing
}

// IsContractComplete reports whether p carries everything needed to generate a contract.
func IsContractComplete(p *Project) bool {
	return p != nil && len(MissingContractFields(p)) == 0
}
