package catalog

// defaultYAML is the PH price list used when no catalog file is configured.
const defaultYAML = `
version: "builtin"
regions:
  ph:
    bucket: balance_ph
    products:
      "11":   {price: "9.50",    skus: ["212"]}
      "22":   {price: "19.00",   skus: ["213"]}
      "56":   {price: "47.50",   skus: ["214"]}
      "112":  {price: "95.00",   skus: ["215"]}
      "223":  {price: "190.00",  skus: ["216"]}
      "336":  {price: "285.00",  skus: ["217"]}
      "570":  {price: "475.00",  skus: ["218"]}
      "1163": {price: "950.00",  skus: ["219"]}
      "2398": {price: "1900.00", skus: ["220"]}
      "gp":   {price: "475.00",  skus: ["224"]}
      "6042": {price: "4750.00", skus: ["221"]}
      "wdp":  {price: "95.00",   skus: ["16641"]}
non_refundable: []
`

func Default() *Catalog {
	c, err := Parse([]byte(defaultYAML))
	if err != nil {
		panic("catalog: builtin table does not parse: " + err.Error())
	}
	return c
}

// Load returns the catalog at path, or the builtin table when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
