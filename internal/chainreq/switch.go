package chainreq

import "slices"

// ValidateSwitch checks raw wallet_switchEthereumChain params: a single object
// whose only key is chainId. It returns the canonical chain id.
func ValidateSwitch(params []interface{}) (string, error) {
	if len(params) != 1 {
		return "", invalid(ReasonNotSingleObject, params)
	}
	obj, ok := params[0].(map[string]interface{})
	if !ok || obj == nil {
		return "", invalid(ReasonNotSingleObject, params)
	}
	var extra []string
	for k := range obj {
		if k != "chainId" {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		slices.Sort(extra)
		return "", invalid(ReasonUnexpectedKeys, extra)
	}
	chainID, _, err := ParseChainID(obj["chainId"])
	if err != nil {
		return "", err
	}
	return chainID, nil
}
