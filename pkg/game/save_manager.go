package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/teknisee/shimeji/pkg/pet"
)

// 存储路径常量
const (
	petsObject       = "pets"
	snapshotProperty = "snapshots"
)

// SaveManager 宠物存档管理器
//
// 负责把注册表导出的宠物快照持久化到 gdata 存储，以及在
// 启动时恢复。恢复采用部分失败语义：单条损坏的记录跳过
// 并记录日志，不影响其余宠物。
type SaveManager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，不持久化）
}

// NewSaveManager 创建存档管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
func NewSaveManager(gdataManager *gdata.Manager) *SaveManager {
	return &SaveManager{gdataManager: gdataManager}
}

// SavePets 保存宠物快照
//
// 降级模式下静默跳过。
//
// 参数：
//   - snapshots: 注册表导出的快照列表
//
// 返回：
//   - error: 序列化或写入失败时返回错误
func (sm *SaveManager) SavePets(snapshots []pet.Snapshot) error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(snapshots)
	if err != nil {
		return fmt.Errorf("failed to marshal pet snapshots: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(petsObject, snapshotProperty, data); err != nil {
		return fmt.Errorf("failed to save pet snapshots: %w", err)
	}

	log.Printf("[SaveManager] Saved %d pet snapshots", len(snapshots))
	return nil
}

// LoadPets 加载宠物快照
//
// 降级模式或无存档时返回空列表。逐条解码，单条损坏的
// 记录跳过。
//
// 返回：
//   - []pet.Snapshot: 成功解码的快照
//   - error: 读取或整体解析失败时返回错误
func (sm *SaveManager) LoadPets() ([]pet.Snapshot, error) {
	if sm.gdataManager == nil {
		return nil, nil
	}
	if !sm.gdataManager.ObjectPropExists(petsObject, snapshotProperty) {
		return nil, nil
	}

	data, err := sm.gdataManager.LoadObjectProp(petsObject, snapshotProperty)
	if err != nil {
		return nil, fmt.Errorf("failed to load pet snapshots: %w", err)
	}

	return decodeSnapshots(data)
}

// decodeSnapshots 逐条解码快照列表
//
// 先解析为 YAML 节点序列，再逐节点解码，让单条损坏的
// 记录只损失自己。
func decodeSnapshots(data []byte) ([]pet.Snapshot, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse pet snapshots: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	list := doc.Content[0]
	if list.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("pet snapshot data is not a list")
	}

	snapshots := make([]pet.Snapshot, 0, len(list.Content))
	for i, node := range list.Content {
		var s pet.Snapshot
		if err := node.Decode(&s); err != nil {
			log.Printf("[SaveManager] Skipping corrupt pet record %d: %v", i, err)
			continue
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}
