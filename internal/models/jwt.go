package models

// JWTClaims represents the structure of the JWT token claims
type JWTClaims struct {
	JTI         string      `json:"jti"`
	Exp         int64       `json:"exp"`
	IAT         int64       `json:"iat"`
	ISS         string      `json:"iss"`
	AUD         interface{} `json:"aud"`
	SUB         string      `json:"sub"`
	AZP         string      `json:"azp"`
	RealmAccess struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
	Scope             string `json:"scope"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
}

// GetAudiences returns the aud claim as a list; issuers send either a string or an array
func (c *JWTClaims) GetAudiences() []string {
	switch aud := c.AUD.(type) {
	case string:
		return []string{aud}
	case []string:
		return aud
	case []interface{}:
		out := make([]string, 0, len(aud))
		for _, a := range aud {
			if s, ok := a.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

// HasRole reports whether the realm roles include role
func (c *JWTClaims) HasRole(role string) bool {
	for _, r := range c.RealmAccess.Roles {
		if r == role {
			return true
		}
	}
	return false
}
