package cwqi

// macRow builds a health-only row with a numeric result and MAC objective.
func macRow(name string, result, mac float64, status string) RawParameterRow {
	return RawParameterRow{
		ParameterName:       name,
		ParameterType:       TypeMAC,
		ResultNumeric:       Number(result),
		MACValue:            Number(mac),
		MACComplianceStatus: ParseComplianceStatus(status),
		SampleNumber:        "WO-1001",
	}
}

// aoRow builds an aesthetic/operational row.
func aoRow(name string, result, ao float64, status, overall string) RawParameterRow {
	return RawParameterRow{
		ParameterName:      name,
		ParameterType:      TypeAO,
		ResultNumeric:      Number(result),
		AOValue:            Number(ao),
		AOComplianceStatus: ParseComplianceStatus(status),
		ComplianceStatus:   ParseComplianceStatus(overall),
		SampleNumber:       "WO-1001",
	}
}

func generalRow(name string, result float64) RawParameterRow {
	return RawParameterRow{
		ParameterName: name,
		ParameterType: TypeGeneral,
		ResultNumeric: Number(result),
		SampleNumber:  "WO-1001",
	}
}

func categorize(e *Engine, rows ...RawParameterRow) []CategorizedParameter {
	return e.Classify(rows).Health
}
