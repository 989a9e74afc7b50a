package daemonrpc

func (r *RpcClient) GetInfo(p GetInfoRequest) (*GetInfoResponse, error) {
	o := &GetInfoResponse{}
	return o, r.Request("get_info", p, o)
}

func (r *RpcClient) GetCheckpoints(p GetCheckpointsRequest) (*GetCheckpointsResponse, error) {
	o := &GetCheckpointsResponse{}
	return o, r.Request("get_checkpoints", p, o)
}

func (r *RpcClient) CheckHardened(p CheckHardenedRequest) (*CheckHardenedResponse, error) {
	o := &CheckHardenedResponse{}
	return o, r.Request("check_hardened", p, o)
}

func (r *RpcClient) CheckSync(p CheckSyncRequest) (*CheckSyncResponse, error) {
	o := &CheckSyncResponse{}
	return o, r.Request("check_sync", p, o)
}

func (r *RpcClient) GetSyncCheckpoint(p GetSyncCheckpointRequest) (*GetSyncCheckpointResponse, error) {
	o := &GetSyncCheckpointResponse{}
	return o, r.Request("get_sync_checkpoint", p, o)
}

func (r *RpcClient) GetLastCheckpoint(p GetLastCheckpointRequest) (*GetLastCheckpointResponse, error) {
	o := &GetLastCheckpointResponse{}
	return o, r.Request("get_last_checkpoint", p, o)
}

func (r *RpcClient) SubmitHeader(p SubmitHeaderRequest) (*SubmitHeaderResponse, error) {
	o := &SubmitHeaderResponse{}
	return o, r.Request("submit_header", p, o)
}
