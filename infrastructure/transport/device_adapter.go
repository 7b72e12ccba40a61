package transport

// DeviceAdapter implements the DeviceRepository port on top of a transport client
type DeviceAdapter struct {
	client Client
}

// NewDeviceAdapter creates a new device adapter
func NewDeviceAdapter(client Client) *DeviceAdapter {
	return &DeviceAdapter{client: client}
}

// Connect connects to the device
func (a *DeviceAdapter) Connect() error {
	return a.client.Connect()
}

// Disconnect disconnects from the device
func (a *DeviceAdapter) Disconnect() {
	a.client.Disconnect()
}

// ExecuteCommand executes a command on the device
func (a *DeviceAdapter) ExecuteCommand(cmd string) (string, error) {
	return a.client.ExecuteCommand(cmd)
}

// IsConnected checks if connected
func (a *DeviceAdapter) IsConnected() bool {
	return a.client.IsConnected()
}
