package directory

import (
	"time"

	"github.com/google/uuid"

	"flatchat/store"
)

const groupsDoc = "groups"

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	CreatorID string   `json:"creatorId"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"createdAt"`
}

// CreateGroup creates a group owned by creatorID. The creator is always
// a member; duplicate and unknown member ids are dropped.
func (d *Directory) CreateGroup(name, creatorID string, memberIDs []string) (Group, error) {
	if name == "" || creatorID == "" {
		return Group{}, ErrInvalid
	}
	if _, ok := d.FindByID(creatorID); !ok {
		return Group{}, ErrNotFound
	}

	members := []string{creatorID}
	seen := map[string]bool{creatorID: true}
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		if _, ok := d.FindByID(id); !ok {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}

	group := Group{
		ID:        uuid.NewString(),
		Name:      name,
		CreatorID: creatorID,
		Members:   members,
		CreatedAt: time.Now().UnixMilli(),
	}
	err := store.Update(d.store, groupsDoc, func(groups []Group) ([]Group, error) {
		return append(groups, group), nil
	})
	if err != nil {
		return Group{}, err
	}
	return group, nil
}

func (d *Directory) FindGroup(groupID string) (Group, bool) {
	for _, g := range store.Load[Group](d.store, groupsDoc) {
		if g.ID == groupID {
			return g, true
		}
	}
	return Group{}, false
}

func (d *Directory) AddMember(groupID, userID string) (Group, error) {
	if _, ok := d.FindByID(userID); !ok {
		return Group{}, ErrNotFound
	}

	var updated Group
	err := store.Update(d.store, groupsDoc, func(groups []Group) ([]Group, error) {
		for i := range groups {
			if groups[i].ID != groupID {
				continue
			}
			for _, m := range groups[i].Members {
				if m == userID {
					return nil, ErrAlreadyMember
				}
			}
			groups[i].Members = append(groups[i].Members, userID)
			updated = groups[i]
			return groups, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return Group{}, err
	}
	return updated, nil
}

// UserGroups returns every group the user is a member of.
func (d *Directory) UserGroups(userID string) []Group {
	var result []Group
	for _, g := range store.Load[Group](d.store, groupsDoc) {
		for _, m := range g.Members {
			if m == userID {
				result = append(result, g)
				break
			}
		}
	}
	return result
}
