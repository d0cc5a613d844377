package guides

import "voxelprint.ai/internal/sim/block"

// PairingProgress accepts a lone chest where a paired one is wanted, as long as
// the facing agrees. Placing the other half next to it pairs them up.
func PairingProgress(target, result block.State) bool {
	tt, ok1 := target.Get(block.PropChestType)
	rt, ok2 := result.Get(block.PropChestType)
	if !ok1 || !ok2 {
		return false
	}
	tf, _ := target.Get(block.PropFacing)
	rf, _ := result.Get(block.PropFacing)
	if tf != rf {
		return false
	}
	return tt != block.ChestSingle && rt == block.ChestSingle
}
