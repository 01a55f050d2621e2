package asset

import (
	"fmt"

	"github.com/tradeport/goapi/domain"
)

// Id identifies a unique tradeable asset.
type Id struct {
	ChainId    domain.ChainId `json:"chainId" bson:"chainId"`
	Collection domain.Address `json:"collection" bson:"collection"`
	TokenId    domain.TokenId `json:"tokenId" bson:"tokenId"`
}

func (id Id) ToLower() Id {
	return Id{
		ChainId:    id.ChainId,
		Collection: id.Collection.ToLower(),
		TokenId:    id.TokenId,
	}
}

func (id Id) String() string {
	return fmt.Sprintf("%d:%s:%s", id.ChainId, id.Collection.ToLowerStr(), id.TokenId)
}
