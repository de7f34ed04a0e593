package tags

import (
	"fmt"

	"divemanager/pkg/models"
)

type Kind string

const (
	KindAsset Kind = "asset"
	KindUser  Kind = "user"
)

type AssetFinder interface {
	FindByTagCode(code string) (*models.Asset, error)
}

type UserFinder interface {
	FindByTagCode(code string) (*models.User, error)
}

// Resolution is the entity a scanned code points at.
type Resolution struct {
	Kind  Kind          `json:"type"`
	Asset *models.Asset `json:"asset,omitempty"`
	User  *models.User  `json:"user,omitempty"`
}

// Resolver maps a scanned QR/NFC code to the asset or user carrying it.
type Resolver struct {
	assets AssetFinder
	users  UserFinder
}

func NewResolver(assets AssetFinder, users UserFinder) *Resolver {
	return &Resolver{
		assets: assets,
		users:  users,
	}
}

// Resolve tries asset tags first, then user tags. It returns nil when the
// code is not registered anywhere.
func (r *Resolver) Resolve(code string) (*Resolution, error) {
	asset, err := r.assets.FindByTagCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tag against assets: %w", err)
	}
	if asset != nil {
		return &Resolution{Kind: KindAsset, Asset: asset}, nil
	}

	user, err := r.users.FindByTagCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tag against users: %w", err)
	}
	if user != nil {
		return &Resolution{Kind: KindUser, User: user}, nil
	}

	return nil, nil
}
