package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownScene is returned when a scene name matches no built-in scene
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the JSON file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const builtInGroup = "Built-in Scenes"

type builtIn struct {
	info  SceneInfo
	build func(seed int64) (*Scene, error)
}

var builtIns = []builtIn{
	{
		info: SceneInfo{ID: "default", Name: "Default Scene", Description: "Diffuse, glass and metal spheres on a ground sphere"},
		build: func(int64) (*Scene, error) {
			return NewDefaultScene()
		},
	},
	{
		info:  SceneInfo{ID: "spheregrid", Name: "Sphere Grid", Description: "Seeded field of small spheres with mixed materials"},
		build: NewSphereGridScene,
	},
	{
		info: SceneInfo{ID: "empty", Name: "Empty Scene", Description: "Sky gradient only"},
		build: func(int64) (*Scene, error) {
			return NewEmptyScene()
		},
	},
}

// ListScenes returns the built-in scenes in registry order
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtIns))
	for i, b := range builtIns {
		scenes[i] = b.info
		scenes[i].Group = builtInGroup
		scenes[i].Type = "builtin"
	}
	return scenes
}

// NewBuiltInScene creates the named built-in scene. The seed only affects
// scenes that generate their layout randomly.
func NewBuiltInScene(name string, seed int64) (*Scene, error) {
	for _, b := range builtIns {
		if b.info.ID == name {
			return b.build(seed)
		}
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(sceneIDs(), ", "))
}

func sceneIDs() []string {
	ids := make([]string, len(builtIns))
	for i, b := range builtIns {
		ids[i] = b.info.ID
	}
	return ids
}

// ListSceneFiles scans dir for JSON scene files and returns their metadata.
// A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseSceneFileMetadata(filePath)
		if err != nil {
			// Skip unreadable files and keep the rest
			log.Printf("Warning: failed to parse metadata for %s: %v", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// ParseSceneFileMetadata reads the name, description and group of a scene file
func ParseSceneFileMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:       fmt.Sprintf("file:%s", nameWithoutExt),
		Name:     titleCase(nameWithoutExt),
		Group:    "Scene Files",
		Type:     "file",
		FilePath: filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return sceneInfo, err
	}

	var header struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Group       string `json:"group"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return sceneInfo, err
	}

	if header.Name != "" {
		sceneInfo.Name = header.Name
	}
	if header.Group != "" {
		sceneInfo.Group = header.Group
	}
	sceneInfo.Description = header.Description

	return sceneInfo, nil
}

// ListAllScenes returns built-in scenes and the scene files found in dir, grouped by category
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	fileScenes, err := ListSceneFiles(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}

	allScenes := append(ListScenes(), fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtInGroup,
		Scenes: groupMap[builtInGroup],
	})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// Load resolves a scene id as returned by ListAllScenes: built-in names
// directly, "file:<name>" against dir.
func Load(id, dir string, seed int64) (*Scene, error) {
	if name, ok := strings.CutPrefix(id, "file:"); ok {
		if strings.ContainsAny(name, `/\`) || name == ".." {
			return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
		}
		return LoadSceneFile(filepath.Join(dir, name+".json"))
	}
	return NewBuiltInScene(id, seed)
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
