package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var Erc20ABI abi.ABI

func init() {
	_abi, err := abi.JSON(strings.NewReader(erc20ABIJson))
	if err != nil {
		panic("Failed to parse ABI")
	}
	Erc20ABI = _abi
}

var erc20ABIJson = `
[
	{
		"inputs":[
		{
			"internalType":"address",
			"name":"owner",
			"type":"address"
		},
		{
			"internalType":"address",
			"name":"spender",
			"type":"address"
		}
		],
		"name":"allowance",
		"outputs":[
		{
			"internalType":"uint256",
			"name":"",
			"type":"uint256"
		}
		],
		"stateMutability":"view",
		"type":"function"
	},
	{
		"inputs":[
		{
			"internalType":"address",
			"name":"account",
			"type":"address"
		}
		],
		"name":"balanceOf",
		"outputs":[
		{
			"internalType":"uint256",
			"name":"",
			"type":"uint256"
		}
		],
		"stateMutability":"view",
		"type":"function"
	},
	{
		"inputs":[],
		"name":"decimals",
		"outputs":[
		{
			"internalType":"uint8",
			"name":"",
			"type":"uint8"
		}
		],
		"stateMutability":"view",
		"type":"function"
	}
]
`
